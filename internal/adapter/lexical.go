package adapter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocationOutOfRange is returned when a location does not address the buffer.
var ErrLocationOutOfRange = errors.New("location out of range")

// LexicalAdapter locates statement boundaries in raw C++ source.
type LexicalAdapter interface {
	// EndOfStatementAfter returns the offset just past the terminating ';'
	// when it is the next significant token after loc. If the statement has
	// no terminating ';' (a function body, for instance) it returns loc.
	EndOfStatementAfter(src []byte, loc int) (int, error)
}

// LocalLexicalAdapter is the byte scanner behind LexicalAdapter.
type LocalLexicalAdapter struct{}

// NewLocalLexicalAdapter constructs a LocalLexicalAdapter.
func NewLocalLexicalAdapter() *LocalLexicalAdapter {
	return &LocalLexicalAdapter{}
}

// attribute-like specifiers that may sit between a declaration and its ';'.
var specifierKeywords = map[string]bool{
	"__attribute__": true,
	"__declspec":    true,
	"alignas":       true,
}

// EndOfStatementAfter implements LexicalAdapter.
func (a *LocalLexicalAdapter) EndOfStatementAfter(src []byte, loc int) (int, error) {
	if loc < 0 || loc > len(src) {
		return 0, fmt.Errorf("%w: %d (buffer size %d)", ErrLocationOutOfRange, loc, len(src))
	}

	if loc == len(src) {
		return loc, nil
	}

	if src[loc] == ';' {
		return loc + 1, nil
	}

	pos := loc + 1

	for {
		pos = skipTrivia(src, pos)
		if pos >= len(src) {
			return loc, nil
		}

		switch c := src[pos]; {
		case c == ';':
			return pos + 1, nil
		case c == '[' && pos+1 < len(src) && src[pos+1] == '[':
			pos = skipGroup(src, pos)
		case isIdentStart(c):
			word, end := scanIdent(src, pos)
			if !specifierKeywords[word] {
				return loc, nil
			}

			end = skipTrivia(src, end)
			if end >= len(src) || src[end] != '(' {
				return loc, nil
			}

			pos = skipGroup(src, end)
		default:
			return loc, nil
		}
	}
}

// IsExplicitSpecializationAt reports whether the declaration starting at
// begin is introduced by "template<", the spelling of an explicit
// specialization. Explicit instantiations read "template class ..." instead.
func IsExplicitSpecializationAt(src []byte, begin int) bool {
	if begin < 0 || begin >= len(src) {
		return false
	}

	pos := skipTrivia(src, begin)
	if pos >= len(src) || !isIdentStart(src[pos]) {
		return false
	}

	word, end := scanIdent(src, pos)
	if word != "template" {
		return false
	}

	end = skipTrivia(src, end)

	return end < len(src) && src[end] == '<'
}

// StripTemplateHeader removes a leading "template<...>" parameter list and
// the whitespace following it.
func StripTemplateHeader(text string) string {
	src := []byte(text)

	pos := skipTrivia(src, 0)
	if pos >= len(src) || !isIdentStart(src[pos]) {
		return text
	}

	word, end := scanIdent(src, pos)
	if word != "template" {
		return text
	}

	end = skipTrivia(src, end)
	if end >= len(src) || src[end] != '<' {
		return text
	}

	closing := matchAngle(src, end)
	if closing < 0 {
		return text
	}

	return strings.TrimLeft(text[closing+1:], " \t\r\n")
}

// RewriteIdentifiers returns text with every identifier passed through fn.
// String literals, character literals and comments are copied verbatim.
func RewriteIdentifiers(text string, fn func(ident string) string) string {
	src := []byte(text)

	var b strings.Builder

	b.Grow(len(src))

	for pos := 0; pos < len(src); {
		c := src[pos]

		switch {
		case isIdentStart(c):
			word, end := scanIdent(src, pos)
			b.WriteString(fn(word))
			pos = end
		case isDigit(c):
			end := pos
			for end < len(src) && (isIdentPart(src[end]) || src[end] == '.' || src[end] == '\'') {
				end++
			}

			b.Write(src[pos:end])
			pos = end
		case c == '"' || c == '\'':
			end := skipLiteral(src, pos)
			b.Write(src[pos:end])
			pos = end
		case c == '/' && pos+1 < len(src) && (src[pos+1] == '/' || src[pos+1] == '*'):
			end := skipComment(src, pos)
			b.Write(src[pos:end])
			pos = end
		default:
			b.WriteByte(c)
			pos++
		}
	}

	return b.String()
}

// LineAt returns the 1-based line number of offset in src.
func LineAt(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}

	line := 1

	for _, c := range src[:max(offset, 0)] {
		if c == '\n' {
			line++
		}
	}

	return line
}

func skipTrivia(src []byte, pos int) int {
	for pos < len(src) {
		switch c := src[pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			pos++
		case c == '\\' && pos+1 < len(src) && src[pos+1] == '\n':
			pos += 2
		case c == '/' && pos+1 < len(src) && (src[pos+1] == '/' || src[pos+1] == '*'):
			pos = skipComment(src, pos)
		default:
			return pos
		}
	}

	return pos
}

func skipComment(src []byte, pos int) int {
	if src[pos+1] == '/' {
		for pos < len(src) && src[pos] != '\n' {
			pos++
		}

		return pos
	}

	end := strings.Index(string(src[pos+2:]), "*/")
	if end < 0 {
		return len(src)
	}

	return pos + 2 + end + 2
}

// skipLiteral skips a string or character literal starting at its quote.
func skipLiteral(src []byte, pos int) int {
	quote := src[pos]
	pos++

	for pos < len(src) {
		switch src[pos] {
		case '\\':
			pos += 2
		case quote:
			return pos + 1
		case '\n':
			return pos
		default:
			pos++
		}
	}

	return len(src)
}

// skipGroup skips a balanced (), [] or {} group starting at its opener.
func skipGroup(src []byte, pos int) int {
	depth := 0

	for pos < len(src) {
		switch c := src[pos]; {
		case c == '(' || c == '[' || c == '{':
			depth++
			pos++
		case c == ')' || c == ']' || c == '}':
			depth--
			pos++

			if depth == 0 {
				return pos
			}
		case c == '"' || c == '\'':
			pos = skipLiteral(src, pos)
		case c == '/' && pos+1 < len(src) && (src[pos+1] == '/' || src[pos+1] == '*'):
			pos = skipComment(src, pos)
		default:
			pos++
		}
	}

	return len(src)
}

// matchAngle returns the offset of the '>' closing the '<' at pos, or -1.
// Angles inside parentheses do not count.
func matchAngle(src []byte, pos int) int {
	depth := 0
	parens := 0

	for pos < len(src) {
		switch c := src[pos]; {
		case c == '(':
			parens++
		case c == ')':
			parens--
		case c == '<' && parens == 0:
			depth++
		case c == '>' && parens == 0:
			depth--
			if depth == 0 {
				return pos
			}
		case c == '"' || c == '\'':
			pos = skipLiteral(src, pos)
			continue
		case c == '/' && pos+1 < len(src) && (src[pos+1] == '/' || src[pos+1] == '*'):
			pos = skipComment(src, pos)
			continue
		}

		pos++
	}

	return -1
}

func scanIdent(src []byte, pos int) (string, int) {
	end := pos
	for end < len(src) && isIdentPart(src[end]) {
		end++
	}

	return string(src[pos:end]), end
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
