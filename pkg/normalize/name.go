package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Name returns the canonical comparison key for a free-text name:
// Unicode case folding, trimmed, inner whitespace collapsed to one space.
func Name(s string) string {
	folded := cases.Fold().String(s)
	return strings.Join(strings.Fields(folded), " ")
}

// Equal reports whether two names are the same after normalization.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}

// Token canonicalizes an identifier-like value (levels, joints, tags,
// movement patterns, muscles): "Upper Back" and "upper-back" become "upper_back".
func Token(s string) string {
	n := Name(s)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(n)
}

// Tokens applies Token to every element, dropping empty results.
func Tokens(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := Token(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Singular strips a trailing English plural from the last word of a name.
// It is used for category-level matching ("lunges" vs "lunge"), never for
// exact exercise names.
func Singular(s string) string {
	n := Name(s)
	idx := strings.LastIndex(n, " ")
	head, word := n[:idx+1], n[idx+1:]
	return head + singularWord(word)
}

func singularWord(w string) string {
	switch {
	case len(w) <= 3:
		return w
	case strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "xes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"):
		return w
	case strings.HasSuffix(w, "s"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// Set is a case-insensitive set of names.
type Set map[string]struct{}

// NewSet builds a set from the given names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name. Empty names are ignored.
func (s Set) Add(name string) {
	if k := Name(name); k != "" {
		s[k] = struct{}{}
	}
}

// Has reports whether the name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[Name(name)]
	return ok
}

// TokenSet builds a set keyed by Token, for joint and tag comparisons.
func TokenSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, t := range Tokens(values) {
		out[t] = struct{}{}
	}
	return out
}

// Intersects reports whether any value in values is present in set (by Token).
func Intersects(set map[string]struct{}, values []string) bool {
	for _, v := range values {
		if _, ok := set[Token(v)]; ok {
			return true
		}
	}
	return false
}

// Category keys a category-level value such as a movement pattern:
// the Token of its singular form, so "Lunges" and "lunge" share a key.
func Category(s string) string {
	return Token(Singular(s))
}

// CategorySet builds a set keyed by Category.
func CategorySet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if c := Category(v); c != "" {
			out[c] = struct{}{}
		}
	}
	return out
}

// HasCategory reports whether any value in values is present in set (by Category).
func HasCategory(set map[string]struct{}, values ...string) bool {
	for _, v := range values {
		if _, ok := set[Category(v)]; ok {
			return true
		}
	}
	return false
}
