package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestReport_Changed(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   bool
	}{
		{
			name:   "output differs without outcomes",
			report: Report{Original: []byte("int x;\n"), Output: []byte("int x;\n\nint y;\n")},
			want:   true,
		},
		{
			name: "patched outcome with identical output",
			report: Report{
				Original: []byte("int x;\n"),
				Output:   []byte("int x;\n"),
				Outcomes: []Outcome{{Status: Patched}},
			},
			want: false,
		},
		{
			name:   "loaded report without buffers",
			report: Report{Outcomes: []Outcome{{Status: Patched}}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Changed())
		})
	}
}

func TestEdit_YAMLKeepsLeadingNewlines(t *testing.T) {
	edit := Insert(7, "\n\ntemplate<>\nint f<int>() {}")

	data, err := yaml.Marshal(edit)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `text: "\n\ntemplate<>\nint f<int>() {}"`)

	var got Edit
	assert.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, edit, got)
	assert.Equal(t, edit.Delta(), got.Delta())
}
