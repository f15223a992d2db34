package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

// Block kinds used by outlines.
const (
	KindHeading    = "heading"
	KindParagraph  = "paragraph"
	KindBlockquote = "blockquote"
	KindList       = "list"
	KindCode       = "code"
	KindHR         = "hr"
	KindHTML       = "html"
	KindTable      = "table"
)

var tokenKinds = map[string]string{
	"heading_open":      KindHeading,
	"paragraph_open":    KindParagraph,
	"blockquote_open":   KindBlockquote,
	"bullet_list_open":  KindList,
	"ordered_list_open": KindList,
	"code_block":        KindCode,
	"fence":             KindCode,
	"hr":                KindHR,
	"html_block":        KindHTML,
	"table_open":        KindTable,
}

// Outline lists the kinds of the top-level blocks of a token stream.
// Token types outside the default rule set are skipped.
func Outline(tokens []block.Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Level != 0 || tok.Nesting < 0 {
			continue
		}
		if kind, ok := tokenKinds[tok.Type]; ok {
			out = append(out, kind)
		}
	}
	return out
}

var reference = goldmark.New(goldmark.WithExtensions(extension.Table))

// ReferenceOutline parses body with goldmark and lists the kinds of its
// top-level blocks, in the same vocabulary as Outline.
func ReferenceOutline(body []byte) []string {
	root := reference.Parser().Parse(text.NewReader(body))

	var out []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case gmast.KindHeading:
			out = append(out, KindHeading)
		case gmast.KindParagraph, gmast.KindTextBlock:
			out = append(out, KindParagraph)
		case gmast.KindBlockquote:
			out = append(out, KindBlockquote)
		case gmast.KindList:
			out = append(out, KindList)
		case gmast.KindCodeBlock, gmast.KindFencedCodeBlock:
			out = append(out, KindCode)
		case gmast.KindThematicBreak:
			out = append(out, KindHR)
		case gmast.KindHTMLBlock:
			out = append(out, KindHTML)
		case extast.KindTable:
			out = append(out, KindTable)
		}
	}
	return out
}
