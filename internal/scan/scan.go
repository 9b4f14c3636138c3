// Package scan generates the serpentine index sets that parameterise the
// control-influence matrix.
//
// Indices are 1-based positions on the (n·m)×(n·m) lattice with row stride
// m·n, matching the layout of the temperature state vector. A row or column
// serpentine set is a path inside one n×n island; block origins locate the
// top-left cell of every island.
package scan

// Orders bundles the three index sets for one grid.
type Orders struct {
	N, M int

	// Row is the row-major serpentine path.
	Row []int
	// Column is the column-major serpentine path.
	Column []int
	// Origins holds the top-left lattice index of each island, row by row.
	Origins []int
}

// Generate returns all index sets for an n-row, m-column island grid.
func Generate(n, m int) Orders {
	return Orders{
		N:       n,
		M:       m,
		Row:     RowSerpentine(n, m),
		Column:  ColumnSerpentine(n, m),
		Origins: BlockOrigins(n, m),
	}
}

// RowSerpentine walks even rows left to right and the following row right to
// left. For odd n the final pair overruns the island; only the first n² entries
// describe a path within it.
func RowSerpentine(n, m int) []int {
	stride := m * n
	set := make([]int, 0, 2*n*((n+1)/2))
	for i := 0; i < n; i++ {
		if i%2 != 0 {
			continue
		}
		for j := 1; j <= n; j++ {
			set = append(set, i*stride+j)
		}
		for j := n; j >= 1; j-- {
			set = append(set, (i+1)*stride+j)
		}
	}
	return set
}

// ColumnSerpentine walks odd columns top to bottom and the following column
// bottom to top.
func ColumnSerpentine(n, m int) []int {
	stride := m * n
	set := make([]int, 0, 2*n*((m+1)/2))
	for i := 1; i <= m; i += 2 {
		for j := 0; j < n; j++ {
			set = append(set, j*stride+i)
		}
		for j := n - 1; j >= 0; j-- {
			set = append(set, j*stride+i+1)
		}
	}
	return set
}

// BlockOrigins returns, for every island (i, j) of the m×m island grid, the
// 1-based lattice index of its top-left cell.
func BlockOrigins(n, m int) []int {
	set := make([]int, 0, m*m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			set = append(set, j*n+i*n*n*m+1)
		}
	}
	return set
}

// Path returns the 0-based lattice offsets, relative to an island origin, of
// the first n² cells of the serpentine used by control column k: row order for
// even k, column order for odd k.
func (o Orders) Path(k int) []int {
	src := o.Row
	if k%2 != 0 {
		src = o.Column
	}
	steps := min(o.N*o.N, len(src))
	path := make([]int, steps)
	for q := 0; q < steps; q++ {
		path[q] = src[q] - 1
	}
	return path
}

// Origin returns the 0-based lattice index of island k's top-left cell.
func (o Orders) Origin(k int) int {
	return o.Origins[k] - 1
}
