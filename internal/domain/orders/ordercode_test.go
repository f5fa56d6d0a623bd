package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_RoundTrip(t *testing.T) {
	g, err := NewCodeGenerator("test-salt")
	require.NoError(t, err)

	for _, seq := range []int64{1, 2, 42, 1_000_000} {
		code := g.Encode(seq)
		require.True(t, strings.HasPrefix(code, "ORD-"), code)
		assert.GreaterOrEqual(t, len(code), len("ORD-")+8)

		got, err := g.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}

func TestCodeGenerator_SaltChangesCodes(t *testing.T) {
	a, err := NewCodeGenerator("salt-a")
	require.NoError(t, err)
	b, err := NewCodeGenerator("salt-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.Encode(7), b.Encode(7))
	assert.NotEqual(t, a.Encode(7), a.Encode(8))
}

func TestCodeGenerator_DecodeRejectsGarbage(t *testing.T) {
	g, err := NewCodeGenerator("test-salt")
	require.NoError(t, err)

	for _, code := range []string{"", "ORD-", "7", "XYZ-abcdefgh"} {
		_, err := g.Decode(code)
		assert.Error(t, err, code)
	}
}

func TestNewRepository_PanicsWithoutCodes(t *testing.T) {
	assert.Panics(t, func() { NewRepository(nil, nil) })
}
