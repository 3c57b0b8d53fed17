package main

import (
	"fmt"

	mergepdf "github.com/alnah/go-mergepdf"
)

// Pool abstracts assembler pool operations for testability.
type Pool interface {
	Acquire() assembler
	Release(assembler)
	Size() int
}

// poolAdapter wraps *mergepdf.AssemblerPool to satisfy Pool.
type poolAdapter struct {
	pool *mergepdf.AssemblerPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire returns nil once the pool is closed.
func (p *poolAdapter) Acquire() assembler {
	a := p.pool.Acquire()
	if a == nil {
		return nil
	}
	return a
}

// Release panics if a did not come from this adapter (programmer error).
func (p *poolAdapter) Release(a assembler) {
	concrete, ok := a.(*mergepdf.Assembler)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", a))
	}
	p.pool.Release(concrete)
}

func (p *poolAdapter) Size() int {
	return p.pool.Size()
}
