// Package model defines the data structures for template materialization.
package model

// Path represents a file system path.
type Path string

// DeclKind is the category of a declaration node.
type DeclKind uint8

const (
	// KindOther covers every node the matcher never inspects directly.
	KindOther DeclKind = iota
	KindTranslationUnit
	KindNamespace
	KindRecord
	KindFunction
	KindDeductionGuide
	KindFunctionTemplate
	KindClassTemplate
	KindClassTemplateSpecialization
	KindClassTemplatePartialSpecialization
	KindVarTemplate
	KindVar
	KindVarTemplateSpecialization
	KindTemplateParam
)

var declKindNames = map[DeclKind]string{
	KindOther:                              "other",
	KindTranslationUnit:                    "translation-unit",
	KindNamespace:                          "namespace",
	KindRecord:                             "record",
	KindFunction:                           "function",
	KindDeductionGuide:                     "deduction-guide",
	KindFunctionTemplate:                   "function-template",
	KindClassTemplate:                      "class-template",
	KindClassTemplateSpecialization:        "class-template-specialization",
	KindClassTemplatePartialSpecialization: "class-template-partial-specialization",
	KindVarTemplate:                        "var-template",
	KindVar:                                "var",
	KindVarTemplateSpecialization:          "var-template-specialization",
	KindTemplateParam:                      "template-param",
}

func (k DeclKind) String() string {
	if name, ok := declKindNames[k]; ok {
		return name
	}

	return "unknown"
}

// IsRecord reports whether the kind declares a class, struct or union.
// Class template specializations are records too.
func (k DeclKind) IsRecord() bool {
	return k == KindRecord || k == KindClassTemplateSpecialization || k == KindClassTemplatePartialSpecialization
}

// IsFunction reports whether the kind declares a function of any flavour.
func (k DeclKind) IsFunction() bool {
	return k == KindFunction || k == KindDeductionGuide
}

// Origin records where a declaration's source location comes from.
type Origin uint8

const (
	// OriginSystemHeader marks nodes expanded from a system or library header.
	OriginSystemHeader Origin = 1 << iota
	// OriginMacro marks nodes produced by a macro expansion.
	OriginMacro
	// OriginInvalid marks nodes whose location does not address the unit's buffer.
	OriginInvalid
)

// ScopeKind is the kind of the closest enclosing scope of a declaration.
type ScopeKind string

const (
	// ScopeNone means the declaration lives at file scope.
	ScopeNone ScopeKind = "none"
	// ScopeNamespace means the closest enclosing scope is a namespace.
	ScopeNamespace ScopeKind = "namespace"
	// ScopeClass means the closest enclosing scope is a class, struct or union.
	ScopeClass ScopeKind = "class"
)

// Range is a half-open byte range [Begin, End) in the original buffer.
type Range struct {
	Begin int `yaml:"begin"`
	End   int `yaml:"end"`
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Begin
}

// Contains reports whether offset lies strictly inside the range.
func (r Range) Contains(offset int) bool {
	return offset > r.Begin && offset < r.End
}

// Decl is one resolved declaration node. Nodes are owned by the tree that
// produced them and are never mutated by the materializer.
type Decl struct {
	ID       string
	Kind     DeclKind
	Name     string
	Type     string
	Parent   *Decl
	Children []*Decl
	Range    Range
	Origin   Origin

	// Instantiation is set for nodes produced by implicit or explicit
	// instantiation of a template.
	Instantiation          bool
	ExplicitSpecialization bool
	HasBody                bool
	HasDefinition          bool

	// TemplateParams names the parameters of a template declaration.
	TemplateParams []string
	// TemplateArgs spells the arguments of a specialization, in order.
	TemplateArgs []string
	// Pattern is the templated declaration a template or specialization is
	// rendered from.
	Pattern *Decl
}

// AddChild appends child and links it back to d.
func (d *Decl) AddChild(child *Decl) *Decl {
	child.Parent = d
	d.Children = append(d.Children, child)

	return child
}

// ParentKind returns the kind of the structural parent, or KindOther at the root.
func (d *Decl) ParentKind() DeclKind {
	if d.Parent == nil {
		return KindOther
	}

	return d.Parent.Kind
}

// HasAncestor reports whether any strict ancestor satisfies pred.
func (d *Decl) HasAncestor(pred func(*Decl) bool) bool {
	for p := d.Parent; p != nil; p = p.Parent {
		if pred(p) {
			return true
		}
	}

	return false
}

// EnclosingScope returns the kind of the closest namespace or class around d.
func (d *Decl) EnclosingScope() ScopeKind {
	for p := d.Parent; p != nil; p = p.Parent {
		switch {
		case p.Kind == KindNamespace:
			return ScopeNamespace
		case p.Kind.IsRecord():
			return ScopeClass
		}
	}

	return ScopeNone
}

// FromSystemHeader reports whether the node was expanded from a system header.
func (d *Decl) FromSystemHeader() bool {
	return d.Origin&OriginSystemHeader != 0
}

// FromMacroOrInvalid reports whether the node comes from a macro expansion
// or carries a location outside the unit's buffer.
func (d *Decl) FromMacroOrInvalid() bool {
	return d.Origin&(OriginMacro|OriginInvalid) != 0
}

// EndLoc returns the offset of the last byte of the declaration, the way a
// front-end reports the location of its closing token.
func (d *Decl) EndLoc() int {
	if d.Range.End <= d.Range.Begin {
		return d.Range.Begin
	}

	return d.Range.End - 1
}

// Label renders the declaration name with its template arguments.
func (d *Decl) Label() string {
	if len(d.TemplateArgs) == 0 {
		return d.Name
	}

	label := d.Name + "<"

	for i, arg := range d.TemplateArgs {
		if i > 0 {
			label += ", "
		}

		label += arg
	}

	return label + ">"
}

// Walk visits d and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (d *Decl) Walk(fn func(*Decl) bool) {
	if d == nil {
		return
	}

	if !fn(d) {
		return
	}

	for _, child := range d.Children {
		child.Walk(fn)
	}
}

// TranslationUnit is one parsed source file and its declaration tree.
type TranslationUnit struct {
	Path    Path
	Content []byte
	Root    *Decl
}
