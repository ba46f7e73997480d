package computer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey(t *testing.T) {
	r := NewKeyResolver(0)

	tests := []struct {
		token    string
		expected Key
	}{
		{"return", KeyEnter},
		{"Return", KeyEnter},
		{"ENTER", KeyEnter},
		{"ctrl", KeyLeftCmd},
		{"cmd", KeyLeftCmd},
		{"meta", KeyLeftCmd},
		{"shift", KeyLeftShift},
		{"alt", KeyLeftAlt},
		{"space", KeySpace},
		{"backspace", KeyBackspace},
		{"tab", KeyTab},
		{"pagedown", KeyPageDown},
		{"Page_Up", KeyPageUp},
		{"0", KeyNum0},
		{"7", KeyNum7},
		{"-", KeyMinus},
		{"=", KeyEqual},
		{"+", KeyAdd},
		// enumeration fallback
		{"a", KeyA},
		{"Z", KeyZ},
		{"f5", KeyF5},
		{"F12", KeyF12},
		{"escape", KeyEscape},
		{"HOME", KeyHome},
		{"up", KeyUp},
		{"delete", KeyDelete},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			k, err := r.ResolveKey(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, k)
		})
	}
}

func TestResolveKey_Unknown(t *testing.T) {
	r := NewKeyResolver(0)

	for _, token := range []string{"bogus", "unknown", "", "leftshift"} {
		_, err := r.ResolveKey(token)
		require.Error(t, err, token)
		assert.ErrorIs(t, err, ErrUnknownKey)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, token, e.Token)
	}
}

func TestResolveChord(t *testing.T) {
	r := NewKeyResolver(DefaultChordCacheSize)

	tests := []struct {
		text     string
		expected []Key
	}{
		{"ctrl+shift+a", []Key{KeyLeftCmd, KeyLeftShift, KeyA}},
		{"alt tab", []Key{KeyLeftAlt, KeyTab}},
		{"cmd + c", []Key{KeyLeftCmd, KeyC}},
		{"Return", []Key{KeyEnter}},
		{"page down", []Key{KeyPageDown}},
		{"+", []Key{KeyAdd}},
		{"  f4  ", []Key{KeyF4}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			keys, err := r.ResolveChord(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, keys)
		})
	}
}

func TestResolveChord_Errors(t *testing.T) {
	r := NewKeyResolver(DefaultChordCacheSize)

	_, err := r.ResolveChord("ctrl+nope")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = r.ResolveChord("   ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveChord_CachedResultIsCopied(t *testing.T) {
	r := NewKeyResolver(4)

	first, err := r.ResolveChord("ctrl+c")
	require.NoError(t, err)
	first[0] = KeyZ

	second, err := r.ResolveChord("ctrl+c")
	require.NoError(t, err)
	assert.Equal(t, []Key{KeyLeftCmd, KeyC}, second)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "LeftCmd", KeyLeftCmd.String())
	assert.Equal(t, "Num0", KeyNum0.String())
	assert.Equal(t, "Unknown", Key(-1).String())
	assert.Equal(t, "Unknown", keyCount.String())

	for k := KeyUnknown; k < keyCount; k++ {
		assert.NotEmpty(t, k.String(), "key %d has no name", int(k))
	}
}

func TestLookupKeyName_SkipsUnknown(t *testing.T) {
	_, ok := LookupKeyName("Unknown")
	assert.False(t, ok)
}
