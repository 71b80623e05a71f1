package typeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := New(PrefixPlot)
	prefix, err := Prefix(id)
	require.NoError(t, err)
	assert.Equal(t, PrefixPlot, prefix)
	assert.NoError(t, Validate(id, PrefixPlot))
	assert.Error(t, Validate(id, PrefixPoint))
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewNodeID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixNode))
}
