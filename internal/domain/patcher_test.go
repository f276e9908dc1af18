package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "reify.dev/pkg/reify/internal/model"
)

func TestPatcher_Apply(t *testing.T) {
	original := []byte("abcdef")
	patcher := NewPatcher(original)

	insert, err := patcher.Insert(3, "X")
	require.NoError(t, err)

	replace, err := patcher.Replace(m.Range{Begin: 1, End: 2}, "YY")
	require.NoError(t, err)

	tail, err := patcher.Insert(6, "!")
	require.NoError(t, err)

	assert.Equal(t, 3, patcher.Len())

	out, err := patcher.Apply()
	require.NoError(t, err)
	assert.Equal(t, "aYYcXdef!", string(out))
	assert.Equal(t, "abcdef", string(original), "original buffer is never modified")

	offset, ok := patcher.OutputOffset(insert)
	require.True(t, ok)
	assert.Equal(t, "X", string(out[offset:offset+1]))

	offset, ok = patcher.OutputOffset(replace)
	require.True(t, ok)
	assert.Equal(t, 1, offset)

	offset, ok = patcher.OutputOffset(tail)
	require.True(t, ok)
	assert.Equal(t, 8, offset)

	_, ok = patcher.OutputOffset(42)
	assert.False(t, ok)

	assert.Equal(t, []m.Edit{
		m.Replace(m.Range{Begin: 1, End: 2}, "YY"),
		m.Insert(3, "X"),
		m.Insert(6, "!"),
	}, patcher.Edits())
}

func TestPatcher_NoEdits(t *testing.T) {
	out, err := NewPatcher([]byte("int x;\n")).Apply()
	require.NoError(t, err)
	assert.Equal(t, "int x;\n", string(out))
}

func TestPatcher_SameOffset(t *testing.T) {
	patcher := NewPatcher([]byte("abcdef"))

	for _, edit := range []m.Edit{
		m.Insert(2, "A"),
		m.Replace(m.Range{Begin: 2, End: 4}, "R"),
		m.Insert(2, "B"),
	} {
		_, err := patcher.Add(edit)
		require.NoError(t, err)
	}

	out, err := patcher.Apply()
	require.NoError(t, err)
	assert.Equal(t, "abABRef", string(out), "inserts keep discovery order and precede the replace")
}

func TestPatcher_AdjacentReplacements(t *testing.T) {
	patcher := NewPatcher([]byte("abcdef"))

	_, err := patcher.Replace(m.Range{Begin: 1, End: 3}, "x")
	require.NoError(t, err)
	_, err = patcher.Replace(m.Range{Begin: 3, End: 5}, "y")
	require.NoError(t, err)
	_, err = patcher.Insert(5, "z")
	require.NoError(t, err)

	out, err := patcher.Apply()
	require.NoError(t, err)
	assert.Equal(t, "axyzf", string(out))
}

func TestPatcher_Overlap(t *testing.T) {
	tests := []struct {
		name  string
		edits []m.Edit
	}{
		{
			name: "insert inside a replaced range",
			edits: []m.Edit{
				m.Replace(m.Range{Begin: 1, End: 4}, "R"),
				m.Insert(2, "I"),
			},
		},
		{
			name: "intersecting replacements",
			edits: []m.Edit{
				m.Replace(m.Range{Begin: 3, End: 5}, "S"),
				m.Replace(m.Range{Begin: 1, End: 4}, "R"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patcher := NewPatcher([]byte("abcdef"))

			for _, edit := range tt.edits {
				_, err := patcher.Add(edit)
				require.NoError(t, err)
			}

			out, err := patcher.Apply()
			require.ErrorIs(t, err, ErrOverlappingEdits)
			assert.Nil(t, out)
		})
	}
}

func TestPatcher_OutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		edit m.Edit
	}{
		{name: "negative insert", edit: m.Insert(-1, "x")},
		{name: "insert past the end", edit: m.Insert(7, "x")},
		{name: "inverted range", edit: m.Replace(m.Range{Begin: 4, End: 2}, "x")},
		{name: "replace past the end", edit: m.Replace(m.Range{Begin: 4, End: 9}, "x")},
		{name: "insert with a non-empty range", edit: m.Edit{Op: m.EditInsert, Range: m.Range{Begin: 1, End: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patcher := NewPatcher([]byte("abcdef"))

			_, err := patcher.Add(tt.edit)
			require.ErrorIs(t, err, ErrEditOutOfBounds)
			assert.Zero(t, patcher.Len())
		})
	}

	t.Run("insert at the end of the buffer", func(t *testing.T) {
		patcher := NewPatcher([]byte("abcdef"))

		_, err := patcher.Insert(6, "!")
		require.NoError(t, err)
	})
}

func TestPatcher_Rebase(t *testing.T) {
	original := []byte("abcdef")
	patcher := NewPatcher(original)

	_, err := patcher.Replace(m.Range{Begin: 1, End: 2}, "YY")
	require.NoError(t, err)
	_, err = patcher.Insert(3, "X")
	require.NoError(t, err)

	out, err := patcher.Apply()
	require.NoError(t, err)

	for _, offset := range []int{0, 2, 4, 5} {
		rebased := patcher.Rebase(offset)
		assert.Equal(t, original[offset], out[rebased], "offset %d", offset)
	}

	assert.Equal(t, len(out), patcher.Rebase(len(original)))

	inner := NewPatcher(original)
	_, err = inner.Replace(m.Range{Begin: 1, End: 4}, "Z")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Rebase(2), "offsets inside a replacement map to its start")
}
