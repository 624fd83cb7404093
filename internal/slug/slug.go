// Package slug derives URL-safe identifiers from display names.
//
// [Slugify] produces the base form of a name. [Generate] resolves collisions against
// a caller supplied [Lookup] by appending "-1", "-2", ... until a free value is found.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is the base used when a name has no slug-able characters.
const Fallback = "phone"

// Lookup reports whether candidate is already taken.
type Lookup func(ctx context.Context, candidate string) (bool, error)

// Slugify lowercases s, folds accented letters to ASCII, collapses every run of
// non-alphanumeric characters into a single '-' and trims leading/trailing separators.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var sb strings.Builder
	sb.Grow(len(folded))
	pending := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	return sb.String()
}

// Generate returns the first free slug for name: its base form, then base-1, base-2, ...
//
// Nothing is reserved; callers persist only the returned value.
func Generate(ctx context.Context, name string, exists Lookup) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = Fallback
	}
	return Resolve(ctx, base, exists)
}

// Resolve is [Generate] for a value that is already a slug.
func Resolve(ctx context.Context, base string, exists Lookup) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to look up slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// Set is an in-memory [Lookup] source; it records the slugs claimed so far.
type Set map[string]struct{}

// Has implements [Lookup].
func (s Set) Has(_ context.Context, candidate string) (bool, error) {
	_, ok := s[candidate]
	return ok, nil
}

// Claim marks slug as taken.
func (s Set) Claim(slug string) {
	s[slug] = struct{}{}
}
