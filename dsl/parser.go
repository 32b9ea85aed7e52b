package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a galley DSL file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/options/paragraph/stream).
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Options   *OptionsSection   `parser:"| @@"`
	Paragraph *ParagraphSection `parser:"| @@"`
	Stream    *StreamSection    `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Options != nil:
		return "options"
	case s.Paragraph != nil:
		return "paragraph"
	case s.Stream != nil:
		return "stream"
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments (title, author, ...).
type MetaSection struct {
	Block *AssignBlock `parser:"'meta' @@"`
}

// OptionsSection configures the engine (width, tolerance, ...).
type OptionsSection struct {
	Block *AssignBlock `parser:"'options' @@"`
}

// AssignBlock is a delimited list of key/value assignments.
type AssignBlock struct {
	Statements []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Value represents generic property values. Numbers stay raw strings so the
// consumer decides how to interpret them.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
}

// ParagraphSection holds prose content destined for composition. Multiple
// string literals are continuation chunks of the same paragraph.
type ParagraphSection struct {
	Pos    lexer.Position  `parser:"" json:"-"`
	Name   string          `parser:"'paragraph' @Ident"`
	Chunks []StringLiteral `parser:"'{' Newline* ( @String Newline* )* '}'"`
}

// Content joins the paragraph chunks with single spaces. Hard line breaks
// are written as \n escapes inside a chunk.
func (p *ParagraphSection) Content() string {
	parts := make([]string, 0, len(p.Chunks))
	for _, c := range p.Chunks {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, " ")
}

// StreamSection lists engine tokens verbatim, bypassing composition.
type StreamSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   string         `parser:"'stream' @Ident"`
	Tokens []*TokenStmt   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// TokenStmt is one token declaration inside a stream block.
type TokenStmt struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Box     *BoxStmt       `parser:"  @@"`
	Glue    *GlueStmt      `parser:"| @@"`
	Penalty *PenaltyStmt   `parser:"| @@"`
}

// BoxStmt declares rigid content: box <width> ["content"].
type BoxStmt struct {
	Width   string         `parser:"'box' @Number"`
	Content *StringLiteral `parser:"@String?"`
}

// GlueStmt declares stretchable space: glue <width> <stretch> <shrink>.
type GlueStmt struct {
	Width   string `parser:"'glue' @Number"`
	Stretch string `parser:"@Number"`
	Shrink  string `parser:"@Number"`
}

// PenaltyStmt declares a break opportunity: penalty <width> <penalty> [flagged].
type PenaltyStmt struct {
	Width   string `parser:"'penalty' @Number"`
	Penalty string `parser:"@Number"`
	Flagged bool   `parser:"@'flagged'?"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
