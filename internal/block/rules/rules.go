// Package rules provides the default block rule set: indented code, fences,
// blockquotes, horizontal rules, lists, ATX and setext headings, HTML blocks,
// pipe tables and the paragraph fallback.
package rules

import (
	"git.home.luguber.info/inful/mdblock/internal/block"
)

// Names of the default rules, in registration order.
const (
	NameCode       = "code"
	NameFences     = "fences"
	NameBlockquote = "blockquote"
	NameHR         = "hr"
	NameList       = "list"
	NameHeading    = "heading"
	NameLHeading   = "lheading"
	NameHTMLBlock  = "htmlblock"
	NameTable      = "table"
	NameParagraph  = "paragraph"
)

// Entry is one row of the default rule table.
type Entry struct {
	Name   string
	Fn     block.RuleFunc
	Chains []string
}

// Defaults returns the default rule table. List must come after hr and
// before heading.
func Defaults() []Entry {
	all := []string{block.ChainParagraph, block.ChainBlockquote, block.ChainList}
	pb := []string{block.ChainParagraph, block.ChainBlockquote}

	return []Entry{
		{NameCode, Code, nil},
		{NameFences, Fence, all},
		{NameBlockquote, Blockquote, all},
		{NameHR, HR, all},
		{NameList, List, pb},
		{NameHeading, Heading, pb},
		{NameLHeading, LHeading, nil},
		{NameHTMLBlock, HTMLBlock, pb},
		{NameTable, Table, []string{block.ChainParagraph}},
		{NameParagraph, Paragraph, nil},
	}
}

// Register appends the default rules to the parser's registry.
func Register(p *block.Parser) error {
	for _, e := range Defaults() {
		if err := p.Ruler().Push(e.Name, e.Fn, e.Chains...); err != nil {
			return err
		}
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' '
}

// lineBounds returns the first content byte and the end of line.
func lineBounds(s *block.State, line int) (pos, eol int) {
	return s.BMarks[line] + max(s.TShift[line], 0), s.EMarks[line]
}

// indentedCode reports whether line is indented far enough to be code in
// the current container.
func indentedCode(s *block.State, line int) bool {
	return s.TShift[line]-s.BlkIndent >= 4
}
