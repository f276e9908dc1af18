package domain

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	m "reify.dev/pkg/reify/internal/model"
)

var (
	// ErrOverlappingEdits is returned when two edits claim the same bytes, or
	// an insert falls strictly inside a replaced range.
	ErrOverlappingEdits = errors.New("overlapping edits")
	// ErrEditOutOfBounds is returned for an edit outside the original buffer.
	ErrEditOutOfBounds = errors.New("edit out of bounds")
)

type pendingEdit struct {
	m.Edit
	seq int
}

// Patcher collects edits against an immutable buffer and applies them in a
// single ordered pass. Edits are always expressed in original coordinates.
type Patcher struct {
	original []byte
	edits    []pendingEdit
}

// NewPatcher creates a Patcher over original. The buffer is never modified.
func NewPatcher(original []byte) *Patcher {
	return &Patcher{original: original}
}

// Insert queues text at offset at.
func (p *Patcher) Insert(at int, text string) (int, error) {
	return p.Add(m.Insert(at, text))
}

// Replace queues the replacement of r with text.
func (p *Patcher) Replace(r m.Range, text string) (int, error) {
	return p.Add(m.Replace(r, text))
}

// Add validates and queues an edit. It returns the edit's sequence number,
// which identifies it in OutputOffset.
func (p *Patcher) Add(edit m.Edit) (int, error) {
	r := edit.Range
	if r.Begin < 0 || r.Begin > r.End || r.End > len(p.original) {
		return 0, fmt.Errorf("%w: %s [%d,%d) in buffer of %d bytes", ErrEditOutOfBounds, edit.Op, r.Begin, r.End, len(p.original))
	}

	if edit.Op == m.EditInsert && r.Len() != 0 {
		return 0, fmt.Errorf("%w: insert with non-empty range [%d,%d)", ErrEditOutOfBounds, r.Begin, r.End)
	}

	seq := len(p.edits)
	p.edits = append(p.edits, pendingEdit{Edit: edit, seq: seq})

	return seq, nil
}

// Len returns the number of queued edits.
func (p *Patcher) Len() int {
	return len(p.edits)
}

// Edits returns the queued edits in application order.
func (p *Patcher) Edits() []m.Edit {
	sorted := p.sorted()

	edits := make([]m.Edit, len(sorted))
	for i, e := range sorted {
		edits[i] = e.Edit
	}

	return edits
}

// sorted orders edits by start offset. At one offset inserts go before a
// replace, and edits of the same kind keep their discovery order.
func (p *Patcher) sorted() []pendingEdit {
	sorted := make([]pendingEdit, len(p.edits))
	copy(sorted, p.edits)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Range.Begin != b.Range.Begin {
			return a.Range.Begin < b.Range.Begin
		}

		return a.Range.Len() == 0 && b.Range.Len() != 0
	})

	return sorted
}

// Apply returns a new buffer with every edit applied. Bytes outside the
// edited ranges are copied unchanged.
func (p *Patcher) Apply() ([]byte, error) {
	sorted := p.sorted()

	size := len(p.original)
	for _, e := range sorted {
		size += e.Delta()
	}

	var out bytes.Buffer

	out.Grow(max(size, 0))

	cursor := 0

	for _, e := range sorted {
		if e.Range.Begin < cursor {
			return nil, fmt.Errorf("%w: %s at [%d,%d) overlaps an edit ending at %d",
				ErrOverlappingEdits, e.Op, e.Range.Begin, e.Range.End, cursor)
		}

		out.Write(p.original[cursor:e.Range.Begin])
		out.WriteString(e.Text)
		cursor = e.Range.End
	}

	out.Write(p.original[cursor:])

	return out.Bytes(), nil
}

// Rebase maps an original offset to its position in the applied output. An
// offset inside a replaced range maps to the start of the replacement.
func (p *Patcher) Rebase(offset int) int {
	delta := 0

	for _, e := range p.sorted() {
		switch {
		case e.Range.End <= offset:
			delta += e.Delta()
		case e.Range.Begin < offset:
			return e.Range.Begin + delta
		default:
			return offset + delta
		}
	}

	return offset + delta
}

// OutputOffset returns where the text of edit seq starts in the applied output.
func (p *Patcher) OutputOffset(seq int) (int, bool) {
	delta := 0

	for _, e := range p.sorted() {
		if e.seq == seq {
			return e.Range.Begin + delta, true
		}

		delta += e.Delta()
	}

	return 0, false
}
