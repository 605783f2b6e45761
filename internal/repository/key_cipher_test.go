package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCipher_RoundTrip(t *testing.T) {
	c, err := NewKeyCipher("test-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("AIzaSy-example-key")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "AIzaSy")

	plain, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "AIzaSy-example-key", plain)
}

func TestKeyCipher_FreshNonce(t *testing.T) {
	c, err := NewKeyCipher("test-secret")
	require.NoError(t, err)

	a, err := c.Seal("same")
	require.NoError(t, err)
	b, err := c.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestKeyCipher_EmptyStaysEmpty(t *testing.T) {
	c, err := NewKeyCipher("test-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := c.Open("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestKeyCipher_RejectsTampering(t *testing.T) {
	c, err := NewKeyCipher("test-secret")
	require.NoError(t, err)
	other, err := NewKeyCipher("other-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("key")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)

	_, err = c.Open("not base64!")
	assert.Error(t, err)

	_, err = c.Open("c2hvcnQ=")
	assert.Error(t, err)

	_, err = c.Open(strings.Repeat("A", len(sealed)))
	assert.Error(t, err)
}

func TestNewKeyCipher_EmptySecret(t *testing.T) {
	_, err := NewKeyCipher("")
	assert.Error(t, err)
}
