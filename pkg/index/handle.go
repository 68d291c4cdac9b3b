package index

import "sync/atomic"

// Handle shares one active index across concurrent readers and lets a single
// writer swap in a rebuilt index without locking the read path. Readers may
// briefly observe the previous version during a swap.
type Handle struct {
	current atomic.Pointer[versioned]
}

type versioned struct {
	idx     *Index
	version uint64
}

// NewHandle creates a handle holding the given index at version 1. A nil
// index is allowed; Current then reports version 0 until the first swap.
func NewHandle(idx *Index) *Handle {
	h := &Handle{}
	if idx != nil {
		h.current.Store(&versioned{idx: idx, version: 1})
	}
	return h
}

// Current returns the active index and its version. The index is nil when
// nothing has been published yet.
func (h *Handle) Current() (*Index, uint64) {
	v := h.current.Load()
	if v == nil {
		return nil, 0
	}
	return v.idx, v.version
}

// Swap publishes a new index and returns the new version. The previous
// index stays valid for readers that already hold it.
func (h *Handle) Swap(idx *Index) uint64 {
	for {
		old := h.current.Load()
		var next uint64 = 1
		if old != nil {
			next = old.version + 1
		}
		if h.current.CompareAndSwap(old, &versioned{idx: idx, version: next}) {
			return next
		}
	}
}
