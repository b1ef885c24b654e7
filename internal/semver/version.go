// Package semver models release tags of the form <series>-<major>.<minor>.<patch>.
package semver

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMalformedTag is returned when tag text does not match <series>-<major>.<minor>.<patch>.
	ErrMalformedTag = errors.New("malformed tag")
	// ErrInvalidBumpLevel is returned when a successor is requested at a level other than major, minor or patch.
	ErrInvalidBumpLevel = errors.New("invalid bump level")
	// ErrComponentOverflow is returned when a successor component would not fit in an int.
	ErrComponentOverflow = errors.New("version component overflow")
)

var tagPattern = regexp.MustCompile(`^(.+)-(\d+)\.(\d+)\.(\d+)$`)

// Version is an immutable semantic version bound to a tag series.
type Version struct {
	Series string
	Major  int
	Minor  int
	Patch  int
}

// New creates a Version, validating that the series is non-empty and the components are non-negative.
func New(series string, major, minor, patch int) (Version, error) {
	if series == "" {
		return Version{}, fmt.Errorf("%w: empty series", ErrMalformedTag)
	}
	if strings.Contains(series, "\n") {
		return Version{}, fmt.Errorf("%w: series %q spans lines", ErrMalformedTag, series)
	}
	if major < 0 || minor < 0 || patch < 0 {
		return Version{}, fmt.Errorf("%w: negative component in %d.%d.%d", ErrMalformedTag, major, minor, patch)
	}
	return Version{Series: series, Major: major, Minor: minor, Patch: patch}, nil
}

// Parse parses tag text such as "release-1.2.3".
// The series is greedy, so "a-1.0.0-2.0.0" has series "a-1.0.0".
func Parse(tag string) (Version, error) {
	m := tagPattern.FindStringSubmatch(tag)
	if m == nil {
		return Version{}, fmt.Errorf("%w %q", ErrMalformedTag, tag)
	}

	var nums [3]int
	for i, s := range m[2:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Version{}, fmt.Errorf("%w %q: %v", ErrMalformedTag, tag, err)
		}
		nums[i] = n
	}
	return Version{Series: m[1], Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(tag string) Version {
	v, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return v
}

// Tag returns the canonical tag text "<series>-<major>.<minor>.<patch>".
func (v Version) Tag() string {
	return fmt.Sprintf("%s-%d.%d.%d", v.Series, v.Major, v.Minor, v.Patch)
}

// String returns the version number "<major>.<minor>.<patch>".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Next returns the successor of v when bumping at the given level.
// Components less significant than level are reset to zero; the series never changes.
func (v Version) Next(level Level) (Version, error) {
	next := v
	switch level {
	case LevelPatch:
		if v.Patch == math.MaxInt {
			return Version{}, fmt.Errorf("%w: patch of %s", ErrComponentOverflow, v.Tag())
		}
		next.Patch++
	case LevelMinor:
		if v.Minor == math.MaxInt {
			return Version{}, fmt.Errorf("%w: minor of %s", ErrComponentOverflow, v.Tag())
		}
		next.Minor++
		next.Patch = 0
	case LevelMajor:
		if v.Major == math.MaxInt {
			return Version{}, fmt.Errorf("%w: major of %s", ErrComponentOverflow, v.Tag())
		}
		next.Major++
		next.Minor = 0
		next.Patch = 0
	default:
		return Version{}, fmt.Errorf("%w: %s", ErrInvalidBumpLevel, level)
	}
	return next, nil
}

// Compare orders versions numerically by major, minor and patch, ignoring the series.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmp.Compare(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmp.Compare(v.Minor, o.Minor)
	default:
		return cmp.Compare(v.Patch, o.Patch)
	}
}

// MostSignificantDifference returns the most significant component in which a and b differ,
// or LevelNone when they are identical.
func MostSignificantDifference(a, b Version) Level {
	switch {
	case a.Series != b.Series:
		return LevelSeries
	case a.Major != b.Major:
		return LevelMajor
	case a.Minor != b.Minor:
		return LevelMinor
	case a.Patch != b.Patch:
		return LevelPatch
	default:
		return LevelNone
	}
}
