// Package classify decides how significant a commit is for the next release version.
package classify

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/masmgr/nextver/internal/semver"
)

// Default pattern sources per level. Each one also matches after a leading "* " bullet.
var (
	DefaultMajorPatterns = []string{
		`^\s*(.*?BREAKING CHANGE.*)`,
	}
	DefaultMinorPatterns = []string{
		`^\s*(?:\*\s+)?((?:feat|feature|chore|refactor|perf|config)[\(:].*)`,
	}
	DefaultPatchPatterns = []string{
		`^\s*(?:\*\s+)?((?:fix|bug|docs?|test)[\(:].*)`,
	}
)

// leadingFlags matches a pattern that opens with its own flag group, such as "(?i)" or "(?s:".
var leadingFlags = regexp.MustCompile(`^\(\?[imsU-]+[:)]`)

// Rule ties a severity level to the patterns that indicate it.
type Rule struct {
	Level    semver.Level
	Patterns []*regexp.Regexp
}

// Rules is evaluated most significant level first.
type Rules []Rule

// DefaultRules returns the built-in major/minor/patch rules.
func DefaultRules() Rules {
	rules, err := CompileRules(nil, nil, nil)
	if err != nil {
		panic(err)
	}
	return rules
}

// CompileRules compiles pattern overrides for each level. A nil or empty list
// selects the default patterns for that level. Patterns are matched per line:
// "(?m)" is prepended when the pattern carries no flags of its own. Blank
// patterns are skipped.
func CompileRules(major, minor, patch []string) (Rules, error) {
	sources := []struct {
		level    semver.Level
		patterns []string
		defaults []string
	}{
		{semver.LevelMajor, major, DefaultMajorPatterns},
		{semver.LevelMinor, minor, DefaultMinorPatterns},
		{semver.LevelPatch, patch, DefaultPatchPatterns},
	}

	rules := make(Rules, 0, len(sources))
	for _, src := range sources {
		patterns := src.patterns
		if len(patterns) == 0 {
			patterns = src.defaults
		}

		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !leadingFlags.MatchString(p) {
				p = "(?m)" + p
			}
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("invalid %s pattern %q: %w", src.level, p, err)
			}
			compiled = append(compiled, re)
		}
		rules = append(rules, Rule{Level: src.level, Patterns: compiled})
	}
	return rules, nil
}

// Match explains a classification.
type Match struct {
	Level semver.Level
	// Reason is the text that matched.
	Reason string
	// Default is set when no rule matched and the default level applied.
	Default bool
}

// Classifier maps commit messages to severity levels.
type Classifier struct {
	rules        Rules
	defaultLevel semver.Level
	logger       *slog.Logger
}

// NewClassifier creates a Classifier. Rules are ordered by level so the most
// significant rule set is always tried first. defaultLevel applies when no
// rule matches and must be major, minor or patch.
func NewClassifier(rules Rules, defaultLevel semver.Level) (*Classifier, error) {
	if !defaultLevel.IsSeverity() {
		return nil, fmt.Errorf("invalid default level %s", defaultLevel)
	}
	for _, r := range rules {
		if !r.Level.IsSeverity() {
			return nil, fmt.Errorf("invalid rule level %s", r.Level)
		}
	}

	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b Rule) int {
		return int(a.Level) - int(b.Level)
	})
	return &Classifier{rules: ordered, defaultLevel: defaultLevel}, nil
}

// Default returns a Classifier with the built-in rules and a minor default.
func Default() *Classifier {
	c, _ := NewClassifier(DefaultRules(), semver.LevelMinor)
	return c
}

// WithLogger sets the logger used for debug output of classification decisions.
func (c *Classifier) WithLogger(logger *slog.Logger) *Classifier {
	c.logger = logger
	return c
}

// DefaultLevel returns the level used when no rule matches.
func (c *Classifier) DefaultLevel() semver.Level {
	return c.defaultLevel
}

// Explain returns the level of message along with the text that decided it.
// The first rule set with a matching pattern wins; lower rule sets are not consulted.
func (c *Classifier) Explain(message string) Match {
	text := strings.TrimSpace(message)
	for _, rule := range c.rules {
		for _, re := range rule.Patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			reason := m[0]
			if len(m) > 1 && m[1] != "" {
				reason = m[1]
			}
			reason = strings.TrimSpace(reason)
			c.log().Debug("commit classified",
				slog.String("level", rule.Level.String()),
				slog.String("reason", reason))
			return Match{Level: rule.Level, Reason: reason}
		}
	}

	c.log().Debug("commit classified by default",
		slog.String("level", c.defaultLevel.String()),
		slog.String("message", message))
	return Match{Level: c.defaultLevel, Default: true}
}

// Classify returns the severity level implied by a single commit message.
func (c *Classifier) Classify(message string) semver.Level {
	return c.Explain(message).Level
}

// ClassifyAll returns the most significant level across messages.
// It returns false only when messages is empty.
func (c *Classifier) ClassifyAll(messages []string) (semver.Level, bool) {
	if len(messages) == 0 {
		return semver.LevelNone, false
	}
	level := semver.LevelNone
	for _, msg := range messages {
		level = level.MoreSignificant(c.Classify(msg))
		if level == semver.LevelMajor {
			break
		}
	}
	return level, true
}

func (c *Classifier) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
