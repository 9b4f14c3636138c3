package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSerpentine(t *testing.T) {
	// 3x3 islands on a 9-wide lattice.
	got := RowSerpentine(3, 3)
	want := []int{
		1, 2, 3,
		12, 11, 10,
		19, 20, 21,
		30, 29, 28,
	}
	assert.Equal(t, want, got)
}

func TestColumnSerpentine(t *testing.T) {
	got := ColumnSerpentine(3, 3)
	want := []int{
		1, 10, 19,
		20, 11, 2,
		3, 12, 21,
		22, 13, 4,
	}
	assert.Equal(t, want, got)
}

func TestBlockOrigins(t *testing.T) {
	got := BlockOrigins(3, 3)
	want := []int{1, 4, 7, 28, 31, 34, 55, 58, 61}
	assert.Equal(t, want, got)
}

func TestPathStaysInsideIsland(t *testing.T) {
	for _, size := range []int{3, 4, 5, 10} {
		o := Generate(size, size)
		width := size * size
		for k := 0; k < size*size; k++ {
			path := o.Path(k)
			require.Len(t, path, size*size)

			seen := make(map[int]bool, len(path))
			for _, off := range path {
				row, col := off/width, off%width
				assert.Less(t, row, size, "size=%d k=%d", size, k)
				assert.Less(t, col, size, "size=%d k=%d", size, k)
				assert.False(t, seen[off], "size=%d k=%d visits %d twice", size, k, off)
				seen[off] = true
			}
		}
	}
}

func TestOriginsTileLattice(t *testing.T) {
	o := Generate(4, 4)
	width := 16
	for k := range o.Origins {
		origin := o.Origin(k)
		assert.Equal(t, (k/4)*4, origin/width)
		assert.Equal(t, (k%4)*4, origin%width)
	}
}
