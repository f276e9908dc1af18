package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	m "reify.dev/pkg/reify/internal/model"
)

var (
	// ErrNoPattern is returned when a declaration has no template to render from.
	ErrNoPattern = errors.New("no template pattern")
	// ErrUnsupportedDecl is returned for declaration kinds the synthesizer cannot render.
	ErrUnsupportedDecl = errors.New("unsupported declaration")
	// ErrUnspelledArgument is returned when a template argument has no source spelling.
	ErrUnspelledArgument = errors.New("template argument has no spelling")
)

// Synthesizer renders the non-generic source text of a declaration. It must
// be deterministic and must not modify the tree.
type Synthesizer interface {
	Synthesize(ctx context.Context, unit *m.TranslationUnit, d *m.Decl) (string, error)
}

// TextSynthesizer renders specializations by rewriting the template's own
// source text: the template header becomes template<>, the declared name
// gains its argument list and every parameter name is replaced by its argument.
type TextSynthesizer struct{}

// NewTextSynthesizer constructs a TextSynthesizer.
func NewTextSynthesizer() *TextSynthesizer {
	return &TextSynthesizer{}
}

// Synthesize renders d. Function instantiations and class specializations
// become explicit specializations; a variable template is rendered as its
// own text followed by one specialization per instantiation.
func (s *TextSynthesizer) Synthesize(ctx context.Context, unit *m.TranslationUnit, d *m.Decl) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case d.Kind.IsFunction():
		return s.specialize(unit, d, d.Parent)
	case d.Kind == m.KindClassTemplateSpecialization:
		if d.Pattern == nil {
			return "", fmt.Errorf("%s: %w", d.Label(), ErrNoPattern)
		}

		return s.specialize(unit, d, d.Pattern.Parent)
	case d.Kind == m.KindVarTemplate:
		return s.variable(unit, d)
	default:
		return "", fmt.Errorf("%s (%s): %w", d.Label(), d.Kind, ErrUnsupportedDecl)
	}
}

func (s *TextSynthesizer) specialize(unit *m.TranslationUnit, d, tmpl *m.Decl) (string, error) {
	if tmpl == nil {
		return "", fmt.Errorf("%s: %w", d.Label(), ErrNoPattern)
	}

	text, err := sourceText(unit, tmpl.Range)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.Label(), err)
	}

	body, err := substitute(StripTemplateHeader(text), d, tmpl.TemplateParams, d.Kind != m.KindDeductionGuide)
	if err != nil {
		return "", err
	}

	var out strings.Builder

	out.WriteString("template<>\n")
	out.WriteString(body)

	if !strings.HasSuffix(body, "}") || d.Kind.IsRecord() {
		out.WriteString(";")
	}

	return out.String(), nil
}

func (s *TextSynthesizer) variable(unit *m.TranslationUnit, d *m.Decl) (string, error) {
	text, err := sourceText(unit, d.Range)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.Label(), err)
	}

	var out strings.Builder

	out.WriteString(text)

	if !strings.HasSuffix(text, ";") {
		out.WriteString(";")
	}

	header := StripTemplateHeader(text)

	for _, child := range d.Children {
		if child.Kind != m.KindVarTemplateSpecialization || !child.Instantiation || child.ExplicitSpecialization {
			continue
		}

		body, err := substitute(header, child, d.TemplateParams, true)
		if err != nil {
			return "", err
		}

		out.WriteString("\n\ntemplate<>\n")
		out.WriteString(body)
		out.WriteString(";")
	}

	out.WriteString("\n")

	return out.String(), nil
}

// substitute replaces parameter names with d's arguments and, when named is
// set, appends the argument list to the first occurrence of d's name.
func substitute(text string, d *m.Decl, params []string, named bool) (string, error) {
	bindings := make(map[string]string, len(params))

	for i, param := range params {
		if i >= len(d.TemplateArgs) || param == "" {
			break
		}

		arg := d.TemplateArgs[i]
		if arg == "" || arg == "?" {
			return "", fmt.Errorf("%s: parameter %s: %w", d.Name, param, ErrUnspelledArgument)
		}

		bindings[param] = arg
	}

	args := "<" + strings.Join(d.TemplateArgs, ", ") + ">"
	if len(d.TemplateArgs) == 0 {
		named = false
	}

	return RewriteIdentifiers(text, func(ident string) string {
		if arg, ok := bindings[ident]; ok {
			return arg
		}

		if named && ident == d.Name {
			named = false
			return ident + args
		}

		return ident
	}), nil
}

func sourceText(unit *m.TranslationUnit, r m.Range) (string, error) {
	if r.Begin < 0 || r.End > len(unit.Content) || r.Len() <= 0 {
		return "", fmt.Errorf("range [%d,%d): %w", r.Begin, r.End, ErrLocationOutOfRange)
	}

	return string(unit.Content[r.Begin:r.End]), nil
}
