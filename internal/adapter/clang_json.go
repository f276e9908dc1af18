package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	m "reify.dev/pkg/reify/internal/model"
)

// clangNode mirrors the subset of clang's -ast-dump=json node we consume.
type clangNode struct {
	ID                 string          `json:"id"`
	Kind               string          `json:"kind"`
	Name               string          `json:"name"`
	Loc                clangLoc        `json:"loc"`
	Range              clangRange      `json:"range"`
	Type               *clangType      `json:"type"`
	Value              string          `json:"value"`
	CompleteDefinition bool            `json:"completeDefinition"`
	DefinitionData     json.RawMessage `json:"definitionData"`
	Inner              []*clangNode    `json:"inner"`
}

type clangType struct {
	QualType string `json:"qualType"`
}

type clangRange struct {
	Begin clangLoc `json:"begin"`
	End   clangLoc `json:"end"`
}

// clangLoc is either a bare location or a macro location carrying
// spellingLoc and expansionLoc. clang omits "file" and "includedFrom" when
// they did not change since the previously written location.
type clangLoc struct {
	Offset       *int           `json:"offset"`
	File         string         `json:"file"`
	TokLen       int            `json:"tokLen"`
	IncludedFrom *clangIncluded `json:"includedFrom"`
	SpellingLoc  *clangLoc      `json:"spellingLoc"`
	ExpansionLoc *clangLoc      `json:"expansionLoc"`
}

type clangIncluded struct {
	File string `json:"file"`
}

func (l clangLoc) isMacro() bool {
	return l.SpellingLoc != nil || l.ExpansionLoc != nil
}

func (l clangLoc) empty() bool {
	return l.Offset == nil && !l.isMacro()
}

var clangKinds = map[string]m.DeclKind{
	"TranslationUnitDecl":                    m.KindTranslationUnit,
	"NamespaceDecl":                          m.KindNamespace,
	"CXXRecordDecl":                          m.KindRecord,
	"RecordDecl":                             m.KindRecord,
	"FunctionDecl":                           m.KindFunction,
	"CXXMethodDecl":                          m.KindFunction,
	"CXXConstructorDecl":                     m.KindFunction,
	"CXXDestructorDecl":                      m.KindFunction,
	"CXXConversionDecl":                      m.KindFunction,
	"CXXDeductionGuideDecl":                  m.KindDeductionGuide,
	"FunctionTemplateDecl":                   m.KindFunctionTemplate,
	"ClassTemplateDecl":                      m.KindClassTemplate,
	"ClassTemplateSpecializationDecl":        m.KindClassTemplateSpecialization,
	"ClassTemplatePartialSpecializationDecl": m.KindClassTemplatePartialSpecialization,
	"VarTemplateDecl":                        m.KindVarTemplate,
	"VarDecl":                                m.KindVar,
	"VarTemplateSpecializationDecl":          m.KindVarTemplateSpecialization,
	"TemplateTypeParmDecl":                   m.KindTemplateParam,
	"NonTypeTemplateParmDecl":                m.KindTemplateParam,
	"TemplateTemplateParmDecl":               m.KindTemplateParam,
}

var bodyKinds = map[string]bool{
	"CompoundStmt": true,
	"CXXTryStmt":   true,
}

// DecodeOptions configures how a clang JSON dump is turned into a tree.
type DecodeOptions struct {
	// MainFile is the translation unit's path as clang spells it.
	MainFile string
	// Content is the unit's original buffer, used for lexical classification.
	Content []byte
	// SystemPaths are directory prefixes treated as system headers.
	SystemPaths []string
}

// DecodeClangJSON reads a clang -ast-dump=json document and builds the
// declaration tree of the main file.
func DecodeClangJSON(r io.Reader, opts DecodeOptions) (*m.Decl, error) {
	var root clangNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode clang ast: %w", err)
	}

	if root.Kind != "TranslationUnitDecl" {
		return nil, fmt.Errorf("decode clang ast: unexpected root kind %q", root.Kind)
	}

	conv := &converter{opts: opts, classTemplates: make(map[string]*m.Decl)}
	tree := conv.convert(&root, nil)
	conv.linkPatterns(tree)

	if opts.MainFile != "" && conv.mainDecls == 0 && len(tree.Children) > 0 {
		slog.Warn("No declaration resolved to the main file", "main", opts.MainFile, "decls", len(tree.Children))
	}

	return tree, nil
}

// converter walks nodes in document order so that clang's incremental
// location fields resolve against the previously written location.
type converter struct {
	opts           DecodeOptions
	file           string
	includedFrom   bool
	mainDecls      int
	classTemplates map[string]*m.Decl
}

type resolvedLoc struct {
	offset int
	end    int
	valid  bool
	macro  bool
	file   string
	system bool
}

func (c *converter) convert(node *clangNode, parent *m.Decl) *m.Decl {
	kind, known := clangKinds[node.Kind]
	if !known {
		kind = m.KindOther
	}

	loc := c.resolve(node.Loc)
	begin := c.resolve(node.Range.Begin)
	end := c.resolve(node.Range.End)

	decl := &m.Decl{
		ID:   node.ID,
		Kind: kind,
		Name: node.Name,
	}

	if node.Type != nil {
		decl.Type = node.Type.QualType
	}

	if parent != nil {
		parent.AddChild(decl)
	}

	c.applyLocation(decl, loc, begin, end)
	c.applyTemplateFlags(decl, node, parent)

	for _, child := range node.Inner {
		switch {
		case child.Kind == "TemplateArgument":
			decl.TemplateArgs = append(decl.TemplateArgs, templateArgSpelling(child))
			c.skipLocations(child)
		case bodyKinds[child.Kind]:
			decl.HasBody = true
			c.skipLocations(child)
		case isDeclKind(child.Kind):
			c.convert(child, decl)
		default:
			c.skipLocations(child)
		}
	}

	c.finish(decl)

	return decl
}

// skipLocations advances the incremental location state over a subtree we
// do not keep.
func (c *converter) skipLocations(node *clangNode) {
	c.resolve(node.Loc)
	c.resolve(node.Range.Begin)
	c.resolve(node.Range.End)

	for _, child := range node.Inner {
		c.skipLocations(child)
	}
}

func (c *converter) resolve(loc clangLoc) resolvedLoc {
	if loc.isMacro() {
		if loc.SpellingLoc != nil {
			c.resolve(*loc.SpellingLoc)
		}

		res := resolvedLoc{}
		if loc.ExpansionLoc != nil {
			res = c.resolve(*loc.ExpansionLoc)
		}

		res.macro = true

		return res
	}

	if loc.File != "" {
		c.file = loc.File
		c.includedFrom = loc.IncludedFrom != nil
	}

	if loc.Offset == nil {
		return resolvedLoc{}
	}

	return resolvedLoc{
		offset: *loc.Offset,
		end:    *loc.Offset + loc.TokLen,
		valid:  true,
		file:   c.file,
		system: c.isSystem(c.file),
	}
}

func (c *converter) isSystem(file string) bool {
	clean := filepath.Clean(file)

	for _, prefix := range c.opts.SystemPaths {
		if prefix == "" {
			continue
		}

		if strings.HasPrefix(clean, filepath.Clean(prefix)+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func (c *converter) inMainFile(loc resolvedLoc) bool {
	if c.opts.MainFile == "" {
		return !c.includedFrom
	}

	return samePath(loc.file, c.opts.MainFile)
}

// samePath compares two spellings of a path, relative ones resolved
// against the working directory.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	return errA == nil && errB == nil && absA == absB
}

func (c *converter) applyLocation(decl *m.Decl, loc, begin, end resolvedLoc) {
	if decl.Kind == m.KindTranslationUnit {
		decl.Range = m.Range{Begin: 0, End: len(c.opts.Content)}
		return
	}

	anchor := begin
	if !anchor.valid {
		anchor = loc
	}

	if loc.macro || begin.macro || end.macro {
		decl.Origin |= m.OriginMacro
	}

	switch {
	case !anchor.valid:
		decl.Origin |= m.OriginInvalid
	case anchor.system:
		decl.Origin |= m.OriginSystemHeader
	case !c.inMainFile(anchor):
		decl.Origin |= m.OriginInvalid
	default:
		c.mainDecls++
	}

	if !begin.valid || !end.valid || end.end > len(c.opts.Content) || begin.offset > end.end {
		if decl.Origin&(m.OriginSystemHeader|m.OriginMacro) == 0 {
			decl.Origin |= m.OriginInvalid
		}

		return
	}

	decl.Range = m.Range{Begin: begin.offset, End: end.end}
}

func (c *converter) applyTemplateFlags(decl *m.Decl, node *clangNode, parent *m.Decl) {
	refOnly := node.Loc.empty() && node.Range.Begin.empty() && len(node.Inner) == 0

	switch decl.Kind {
	case m.KindRecord, m.KindClassTemplateSpecialization, m.KindClassTemplatePartialSpecialization:
		decl.HasDefinition = node.CompleteDefinition || len(node.DefinitionData) > 0
	case m.KindClassTemplate:
		c.classTemplates[node.Name] = decl
	}

	templated := parent != nil && (parent.Kind == m.KindFunctionTemplate ||
		parent.Kind == m.KindClassTemplate || parent.Kind == m.KindVarTemplate)

	switch {
	case templated && refOnly && parent.Kind != m.KindClassTemplate:
		// Hand-written specializations are dumped under their template as
		// bare references. Class templates do the same for explicit
		// instantiations, whose full node sits at file scope.
		decl.ExplicitSpecialization = true
	case decl.Kind == m.KindClassTemplateSpecialization && !templated:
		decl.ExplicitSpecialization = IsExplicitSpecializationAt(c.opts.Content, decl.Range.Begin) &&
			decl.Origin&m.OriginInvalid == 0
		decl.Instantiation = !decl.ExplicitSpecialization
	}
}

// finish derives flags that depend on the node's children.
func (c *converter) finish(decl *m.Decl) {
	switch decl.Kind {
	case m.KindFunctionTemplate, m.KindClassTemplate, m.KindVarTemplate,
		m.KindClassTemplatePartialSpecialization:
		for _, child := range decl.Children {
			if child.Kind == m.KindTemplateParam {
				decl.TemplateParams = append(decl.TemplateParams, child.Name)
				continue
			}

			if decl.Pattern == nil && isPatternKind(child.Kind) && len(child.TemplateArgs) == 0 && !child.ExplicitSpecialization {
				decl.Pattern = child
			}
		}
	}

	parent := decl.Parent
	if parent == nil {
		return
	}

	templated := parent.Kind == m.KindFunctionTemplate || parent.Kind == m.KindClassTemplate || parent.Kind == m.KindVarTemplate
	if templated && !decl.ExplicitSpecialization && len(decl.TemplateArgs) > 0 {
		decl.Instantiation = true
	}
}

// linkPatterns points every specialization at the pattern it is rendered
// from. File-scope class specializations find their template by name.
func (c *converter) linkPatterns(root *m.Decl) {
	root.Walk(func(d *m.Decl) bool {
		if d.Pattern != nil {
			return true
		}

		switch {
		case d.Parent != nil && d.Parent.Pattern != nil && d.Parent.Pattern != d && d.Instantiation:
			d.Pattern = d.Parent.Pattern
		case d.Kind == m.KindClassTemplateSpecialization:
			if tmpl, ok := c.classTemplates[d.Name]; ok {
				d.Pattern = tmpl.Pattern
			}
		}

		return true
	})
}

func isPatternKind(kind m.DeclKind) bool {
	return kind == m.KindFunction || kind == m.KindDeductionGuide || kind == m.KindRecord || kind == m.KindVar
}

func isDeclKind(kind string) bool {
	if _, ok := clangKinds[kind]; ok {
		return true
	}

	return strings.HasSuffix(kind, "Decl")
}

func templateArgSpelling(node *clangNode) string {
	switch {
	case node.Type != nil && node.Type.QualType != "":
		return node.Type.QualType
	case node.Value != "":
		return node.Value
	default:
		return "?"
	}
}
