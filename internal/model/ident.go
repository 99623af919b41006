package model

import (
	"fmt"
	"strings"
)

// JoinIdentHash renders the canonical "uuid@major.minor" identifier for a
// content unit at a specific version.
func JoinIdentHash(uuid string, v Version) string {
	return uuid + "@" + v.String()
}

// SplitIdentHash parses an "uuid@major.minor" identifier.
func SplitIdentHash(ident string) (uuid string, v Version, err error) {
	uuid, version, ok := strings.Cut(ident, "@")
	if !ok || uuid == "" {
		return "", Version{}, fmt.Errorf("invalid ident hash %q: want uuid@version", ident)
	}
	v, err = ParseVersion(version)
	if err != nil {
		return "", Version{}, fmt.Errorf("invalid ident hash %q: %w", ident, err)
	}
	return uuid, v, nil
}
