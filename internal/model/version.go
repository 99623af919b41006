package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a major.minor content version. New content starts at 1.1; a
// revision bumps the minor component. Major bumps are an explicit, separate
// operation.
type Version struct {
	Major int
	Minor int
}

// FirstVersion is the version assigned to freshly created content.
func FirstVersion() Version {
	return Version{Major: 1, Minor: 1}
}

// Next returns the version a revision of v is proposed at.
func (v Version) Next() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// IsZero reports whether v is the zero value, which is never a valid
// content version.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// String renders the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses a "major.minor" string. Both components must be
// positive integers.
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("invalid version %q: want major.minor", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	min, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if maj < 1 || min < 1 {
		return Version{}, fmt.Errorf("invalid version %q: components must be >= 1", s)
	}
	return Version{Major: maj, Minor: min}, nil
}
