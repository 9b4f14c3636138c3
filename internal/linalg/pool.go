package linalg

import "sync"

// VectorPool recycles fixed-length scratch vectors.
type VectorPool struct {
	pool sync.Pool
	size int
}

func NewVectorPool(size int) *VectorPool {
	return &VectorPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return make(Vector, size)
			},
		},
	}
}

// Get returns a zeroed vector of the pool's length.
func (p *VectorPool) Get() Vector {
	return p.pool.Get().(Vector)
}

// Put zeroes v and returns it to the pool. Vectors of another length are dropped.
func (p *VectorPool) Put(v Vector) {
	if len(v) != p.size {
		return
	}
	clear(v)
	p.pool.Put(v)
}
