package mergepdf

import (
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent assemblies; each holds its sources and
	// output in memory.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for image decoding and I/O.
	cpuDivisor = 2
)

// AssemblerPool bounds how many assemblies run at once.
// Assemblers are created lazily on first acquire with the pool's options.
type AssemblerPool struct {
	size       int
	opts       []Option
	assemblers []*Assembler
	sem        chan *Assembler
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewAssemblerPool creates a pool with capacity for n Assembler instances.
// Assemblers are created when acquired, not at pool creation.
func NewAssemblerPool(n int, opts ...Option) *AssemblerPool {
	if n < 1 {
		n = 1
	}

	return &AssemblerPool{
		size:       n,
		opts:       opts,
		assemblers: make([]*Assembler, 0, n),
		sem:        make(chan *Assembler, n),
	}
}

// Acquire gets an assembler from the pool, creating one if needed.
// Blocks if all assemblers are in use. Returns nil once the pool is closed.
func (p *AssemblerPool) Acquire() *Assembler {
	// Try to get an idle assembler (non-blocking)
	select {
	case a := <-p.sem:
		return a
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.created < p.size {
		p.created++
		a := NewAssembler(p.opts...)
		p.assemblers = append(p.assemblers, a)
		p.mu.Unlock()
		return a
	}
	p.mu.Unlock()

	// All assemblers created, wait for one to be released
	return <-p.sem
}

// Release returns an assembler to the pool.
// The send never blocks: at most size assemblers exist.
func (p *AssemblerPool) Release(a *Assembler) {
	if a == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- a
	}
}

// Close stops the pool. Blocked Acquire calls return nil.
func (p *AssemblerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.sem)
}

// Size returns the pool capacity.
func (p *AssemblerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
