package catalog

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaintingsAreWellFormed(t *testing.T) {
	paintings := Paintings()
	require.NotEmpty(t, paintings)

	seen := map[string]bool{}

	for _, p := range paintings {
		assert.NotEmpty(t, p.Source)
		assert.NotEmpty(t, p.Caption)
		assert.False(t, path.IsAbs(p.Source), "source %q must be relative to the page", p.Source)
		assert.False(t, seen[p.Source], "duplicate source %q", p.Source)
		seen[p.Source] = true
	}
}

func TestPaintingsReturnsFreshCopy(t *testing.T) {
	first := Paintings()
	first[0].Caption = "changed"

	assert.Equal(t, "The Path Revealed", Paintings()[0].Caption)
}
