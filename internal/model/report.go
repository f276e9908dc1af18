package model

import "bytes"

// Status is the final state of a candidate.
type Status int

const (
	// Patched indicates the candidate's block was written into the buffer.
	Patched Status = iota
	// Dropped indicates the candidate was discarded without an edit.
	Dropped
)

func (s Status) String() string {
	switch s {
	case Patched:
		return "patched"
	case Dropped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalYAML renders the status by name.
func (s Status) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses a status written by MarshalYAML.
func (s *Status) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	if name == Patched.String() {
		*s = Patched
	} else {
		*s = Dropped
	}

	return nil
}

// Outcome records what happened to one candidate.
type Outcome struct {
	Rule   RuleID     `yaml:"rule"`
	DeclID string     `yaml:"decl_id,omitempty"`
	Decl   string     `yaml:"decl"`
	Kind   string     `yaml:"kind"`
	Status Status     `yaml:"status"`
	Reason SkipReason `yaml:"reason,omitempty"`
	Edit   *Edit      `yaml:"edit,omitempty"`
	// Line is the 1-based line of the edit in the patched output.
	Line int `yaml:"line,omitempty"`
}

// Report holds the result of materializing one translation unit.
type Report struct {
	Path     Path      `yaml:"path"`
	Hash     string    `yaml:"hash,omitempty"`
	Outcomes []Outcome `yaml:"outcomes"`

	Original []byte `yaml:"-"`
	Output   []byte `yaml:"-"`
}

// Patched returns the outcomes that produced an edit.
func (r Report) Patched() []Outcome {
	patched := make([]Outcome, 0, len(r.Outcomes))

	for _, outcome := range r.Outcomes {
		if outcome.Status == Patched {
			patched = append(patched, outcome)
		}
	}

	return patched
}

// Changed reports whether the output differs from the original buffer.
func (r Report) Changed() bool {
	return !bytes.Equal(r.Original, r.Output)
}
