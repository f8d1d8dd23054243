// Package naming derives task identifiers and image reference prefixes
// from user-declared names.
package naming

import (
	"strings"
	"unicode"
)

// Segment converts a declared name into a capitalized identifier-safe
// segment for embedding into a composite task name: the name is split on
// runs of non-alphanumeric characters, each piece is capitalized, and the
// pieces are concatenated ("side-car" → "SideCar", "db_init" → "DbInit").
//
// Known limitation: names that differ only in separators or in the case of
// a piece's first letter collapse to the same segment ("my-image",
// "my_image" and "myImage" all become "MyImage"). No disambiguation is
// attempted; declaring two such names yields two entities whose derived
// task names collide.
func Segment(raw string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PathPrefix normalizes a registry prefix so it always ends in "/".
// Idempotent: a prefix that already ends in "/" passes through unchanged.
// The empty string stays empty.
func PathPrefix(raw string) string {
	if raw == "" || strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}
