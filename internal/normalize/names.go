package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Header canonicalizes a source column name: strips a UTF-8 BOM, trims,
// transliterates to ASCII (ë -> e), lowercases and collapses whitespace.
func Header(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	return multiSpace.ReplaceAllString(s, " ")
}

// Headers canonicalizes every name and makes the result unique by suffixing
// repeats with _1, _2, ... The first occurrence keeps the plain name.
func Headers(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		name := Header(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}
