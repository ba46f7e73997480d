package computer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultChordCacheSize bounds the number of distinct chord texts remembered
// by a KeyResolver.
const DefaultChordCacheSize = 256

// KeyResolver turns key tokens and chord texts into Keys. It is safe for
// concurrent use.
type KeyResolver struct {
	chords *lru.Cache[string, []Key]
}

// NewKeyResolver creates a resolver caching up to cacheSize chords. A
// non-positive size disables the cache.
func NewKeyResolver(cacheSize int) *KeyResolver {
	r := &KeyResolver{}
	if cacheSize > 0 {
		// New only fails for non-positive sizes
		r.chords, _ = lru.New[string, []Key](cacheSize)
	}
	return r
}

// ResolveKey resolves a single token, case-insensitively: first against the
// alias table, then against the key enumeration with the first letter
// upper-cased and the rest lower-cased.
func (r *KeyResolver) ResolveKey(token string) (Key, error) {
	lower := strings.ToLower(token)
	if k, ok := LookupAlias(lower); ok {
		return k, nil
	}

	if k, ok := LookupKeyName(capitalize(lower)); ok {
		return k, nil
	}

	return KeyUnknown, &Error{Kind: KindUnknownKey, Op: "resolve key", Token: token}
}

// ResolveChord resolves text such as "ctrl+shift+a" or "alt tab" into keys in
// press order. Text that is itself an alias ("page down", "+") resolves to
// that one key. The first unresolvable token aborts the whole chord.
func (r *KeyResolver) ResolveChord(text string) ([]Key, error) {
	if r.chords != nil {
		if keys, ok := r.chords.Get(text); ok {
			return append([]Key(nil), keys...), nil
		}
	}

	keys, err := r.resolveChord(text)
	if err != nil {
		return nil, err
	}

	if r.chords != nil {
		r.chords.Add(text, append([]Key(nil), keys...))
	}
	return keys, nil
}

func (r *KeyResolver) resolveChord(text string) ([]Key, error) {
	trimmed := strings.TrimSpace(text)
	if k, ok := LookupAlias(strings.ToLower(trimmed)); ok {
		return []Key{k}, nil
	}

	tokens := splitChord(trimmed)
	if len(tokens) == 0 {
		return nil, invalidRequest("key chord %q contains no keys", text)
	}

	keys := make([]Key, 0, len(tokens))
	for _, token := range tokens {
		k, err := r.ResolveKey(token)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func splitChord(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '+' || unicode.IsSpace(r)
	})
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
