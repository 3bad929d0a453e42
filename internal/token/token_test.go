package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_Length(t *testing.T) {
	for _, length := range []int{10, 24, 48} {
		tok, err := NewToken(length)
		require.NoError(t, err)
		assert.Len(t, tok, length)
	}
}

func TestNewToken_URLSafeAlphabet(t *testing.T) {
	const urlSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	for i := 0; i < 50; i++ {
		tok, err := NewToken(24)
		require.NoError(t, err)
		for _, c := range tok {
			assert.True(t, strings.ContainsRune(urlSafe, c),
				"token %q contains non-URL-safe character %q", tok, c)
		}
	}
}

func TestNewToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewToken(24)
		require.NoError(t, err)
		assert.False(t, seen[tok], "token %q generated twice", tok)
		seen[tok] = true
	}
}

func TestNewLocalPart_PrefixAndLength(t *testing.T) {
	local, err := NewLocalPart("tmp-", 8)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(local, "tmp-"))
	assert.Len(t, local, len("tmp-")+8)
}

func TestNewLocalPart_LowercaseAlphanumeric(t *testing.T) {
	for i := 0; i < 50; i++ {
		local, err := NewLocalPart("tmp-", 8)
		require.NoError(t, err)

		random := strings.TrimPrefix(local, "tmp-")
		for _, c := range random {
			assert.True(t, strings.ContainsRune(localPartAlphabet, c),
				"local part %q contains character %q outside the alphabet", local, c)
		}
	}
}

func TestNewLocalPart_EmptyPrefix(t *testing.T) {
	local, err := NewLocalPart("", 8)
	require.NoError(t, err)
	assert.Len(t, local, 8)
}
