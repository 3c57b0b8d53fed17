package mergepdf

import (
	"context"
	"slices"
	"sync"
)

// Session serializes assemblies for one document, such as a live preview.
// At most one run is in flight; a newer Refresh cancels the one in progress,
// and a result that is no longer current is discarded with ErrSuperseded.
type Session struct {
	assembler *Assembler

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *AssembledDocument

	runMu sync.Mutex
}

// NewSession creates a session backed by a. A nil a uses NewAssembler().
func NewSession(a *Assembler) *Session {
	if a == nil {
		a = NewAssembler()
	}
	return &Session{assembler: a}
}

// Refresh assembles items with cfg and, if no newer Refresh was made in the
// meantime, records the result as the latest document.
func (s *Session) Refresh(ctx context.Context, items []SourceItem, cfg LayoutConfig) (*AssembledDocument, error) {
	snapshot := slices.Clone(items)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.current(gen) {
		return nil, ErrSuperseded
	}

	doc, err := s.assembler.Assemble(runCtx, snapshot, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.latest = doc
	return doc, nil
}

// Latest returns the most recent current document, or nil.
func (s *Session) Latest() *AssembledDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}
