// Package modid defines the dotted module identifiers used throughout the
// loader, e.g. "geo" or "geo.points". Segments are case-sensitive; the final
// segment names the artifact on disk.
package modid

import (
	"fmt"
	"strings"
)

// Separator joins identifier segments.
const Separator = "."

// ID is a parsed, validated module identifier.
type ID struct {
	raw      string
	segments []string
}

// Parse validates raw and returns its ID. Each segment must start with a
// letter or underscore and may continue with letters, digits, underscores,
// or hyphens.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("module identifier must not be empty")
	}
	segments := strings.Split(raw, Separator)
	for _, seg := range segments {
		if err := validateSegment(seg); err != nil {
			return ID{}, fmt.Errorf("invalid module identifier %q: %w", raw, err)
		}
	}
	return ID{raw: raw, segments: segments}, nil
}

// MustParse is Parse for identifiers known valid at compile time. It panics
// on invalid input and is intended for tests and static defaults.
func MustParse(raw string) ID {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func validateSegment(seg string) error {
	if seg == "" {
		return fmt.Errorf("empty segment")
	}
	for i, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return fmt.Errorf("segment %q must not start with %q", seg, r)
			}
		default:
			return fmt.Errorf("segment %q contains invalid character %q", seg, r)
		}
	}
	return nil
}

// String returns the dotted form.
func (id ID) String() string { return id.raw }

// IsZero reports whether id is the zero value rather than a parsed identifier.
func (id ID) IsZero() bool { return id.raw == "" }

// Segments returns the ordered name segments. The returned slice is a copy.
func (id ID) Segments() []string {
	out := make([]string, len(id.segments))
	copy(out, id.segments)
	return out
}

// Leaf returns the final segment, which names the source artifact.
func (id ID) Leaf() string {
	if len(id.segments) == 0 {
		return ""
	}
	return id.segments[len(id.segments)-1]
}

// Parent returns the identifier with the leaf removed. ok is false for
// single-segment identifiers.
func (id ID) Parent() (ID, bool) {
	if len(id.segments) < 2 {
		return ID{}, false
	}
	raw := strings.Join(id.segments[:len(id.segments)-1], Separator)
	return ID{raw: raw, segments: id.segments[:len(id.segments)-1]}, true
}
