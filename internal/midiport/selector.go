package midiport

import (
	"regexp"
	"strconv"
	"strings"
)

var wireAddressRE = regexp.MustCompile(`^\d+:\d+$`)

// resolveSelector matches selector against a list of driver-reported
// port names: a bare "N:M" wire address matches a name suffix, a plain
// integer is a positional index, anything else must match a name
// exactly.
func resolveSelector(names []string, selector string) (int, bool) {
	switch {
	case wireAddressRE.MatchString(selector):
		for i, n := range names {
			if strings.HasSuffix(n, selector) {
				return i, true
			}
		}
		return 0, false

	default:
		if n, err := strconv.Atoi(selector); err == nil {
			if n < 0 || n >= len(names) {
				return 0, false
			}
			return n, true
		}
		for i, n := range names {
			if n == selector {
				return i, true
			}
		}
		return 0, false
	}
}

// ownVirtualPortPrefixes are this process's own loopback port names;
// ports whose driver-reported name starts with one of these are
// excluded from discovery candidate sets.
var ownVirtualPortPrefixes = []string{"pod midi in:", "pod midi out:"}

// IsOwnVirtualPort reports whether name looks like one of this process's
// own virtual loopback ports.
func IsOwnVirtualPort(name string) bool {
	for _, p := range ownVirtualPortPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
