package semver

import (
	"fmt"
	"strings"
)

// Level identifies a component of a Version, ordered from most to least significant.
// The same enumeration doubles as the severity of a change: the most
// significant severity across a set of changes is the minimum Level.
type Level int

const (
	LevelSeries Level = iota
	LevelMajor
	LevelMinor
	LevelPatch
	// LevelNone means "no difference" or "no severity".
	LevelNone
)

// String returns a string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelSeries:
		return "series"
	case LevelMajor:
		return "major"
	case LevelMinor:
		return "minor"
	case LevelPatch:
		return "patch"
	case LevelNone:
		return "none"
	default:
		return "unknown"
	}
}

// IsSeverity reports whether the level can classify a change (major, minor or patch).
func (l Level) IsSeverity() bool {
	return l == LevelMajor || l == LevelMinor || l == LevelPatch
}

// MoreSignificant returns whichever of l and other is more significant.
func (l Level) MoreSignificant(other Level) Level {
	if other < l {
		return other
	}
	return l
}

// ParseLevel is the inverse of Level.String and ignores case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "series":
		return LevelSeries, nil
	case "major":
		return LevelMajor, nil
	case "minor":
		return LevelMinor, nil
	case "patch":
		return LevelPatch, nil
	case "none":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("unknown level %q (expected major, minor or patch)", s)
	}
}
