package model

import "gopkg.in/yaml.v3"

// EditOp is the operation an Edit performs.
type EditOp string

const (
	// EditInsert adds text without removing anything.
	EditInsert EditOp = "insert"
	// EditReplace removes a range and writes text in its place.
	EditReplace EditOp = "replace"
)

// Edit is one change expressed in original-buffer coordinates. An insert
// has an empty range at its anchor.
type Edit struct {
	Op    EditOp `yaml:"op"`
	Range Range  `yaml:"range"`
	Text  string `yaml:"text"`
}

// Insert builds an insertion of text at offset at.
func Insert(at int, text string) Edit {
	return Edit{Op: EditInsert, Range: Range{Begin: at, End: at}, Text: text}
}

// Replace builds a replacement of r with text.
func Replace(r Range, text string) Edit {
	return Edit{Op: EditReplace, Range: r, Text: text}
}

// Delta is the change in buffer length once the edit is applied.
func (e Edit) Delta() int {
	return len(e.Text) - e.Range.Len()
}

// MarshalYAML writes text double-quoted. Block scalars lose the leading
// newlines every rendered block starts with.
func (e Edit) MarshalYAML() (interface{}, error) {
	type plain Edit

	var node yaml.Node
	if err := node.Encode(plain(e)); err != nil {
		return nil, err
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "text" {
			node.Content[i+1].Style = yaml.DoubleQuotedStyle
		}
	}

	return &node, nil
}
