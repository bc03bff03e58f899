package scan

import (
	"iter"
	"path/filepath"
	"sort"
)

// Set is the merged result of one scan: deduplicated by cleaned path and
// ordered by size, largest first. Ties keep the order they were added in.
type Set struct {
	items []*Candidate
	index map[string]bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]bool)}
}

// Build drains each sequence in turn into a new Set.
func Build(seqs ...iter.Seq[*Candidate]) *Set {
	s := NewSet()
	for _, seq := range seqs {
		s.Collect(seq)
	}
	return s
}

// Add inserts c in size order. It returns false if a candidate with the
// same path is already present.
func (s *Set) Add(c *Candidate) bool {
	key := filepath.Clean(c.Path)
	if s.index[key] {
		return false
	}
	s.index[key] = true

	// first position holding a strictly smaller candidate
	i := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].Size < c.Size
	})
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = c
	return true
}

// Collect adds every candidate from seq and returns how many were new.
func (s *Set) Collect(seq iter.Seq[*Candidate]) int {
	n := 0
	for c := range seq {
		if s.Add(c) {
			n++
		}
	}
	return n
}

// All returns every candidate, deleted ones included.
func (s *Set) All() []*Candidate {
	return append([]*Candidate(nil), s.items...)
}

// Visible returns the candidates still offered to the operator.
func (s *Set) Visible() []*Candidate {
	out := make([]*Candidate, 0, len(s.items))
	for _, c := range s.items {
		if c.State != StateDeleted {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of candidates, deleted ones included.
func (s *Set) Len() int { return len(s.items) }

// TotalSize sums the sizes of the visible candidates.
func (s *Set) TotalSize() int64 {
	var total int64
	for _, c := range s.items {
		if c.State != StateDeleted {
			total += c.Size
		}
	}
	return total
}
