package rules

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

// htmlBlockTags are the elements that may open an HTML block.
var htmlBlockTags = map[atom.Atom]bool{
	atom.Article: true, atom.Aside: true, atom.Blockquote: true, atom.Body: true,
	atom.Button: true, atom.Canvas: true, atom.Caption: true, atom.Col: true,
	atom.Colgroup: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Embed: true, atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hgroup: true,
	atom.Hr: true, atom.Iframe: true, atom.Li: true, atom.Map: true, atom.Object: true,
	atom.Ol: true, atom.Output: true, atom.P: true, atom.Pre: true, atom.Progress: true,
	atom.Script: true, atom.Section: true, atom.Style: true, atom.Table: true,
	atom.Tbody: true, atom.Td: true, atom.Textarea: true, atom.Tfoot: true, atom.Th: true,
	atom.Thead: true, atom.Tr: true, atom.Ul: true, atom.Video: true,
}

// blockTag reports whether line opens with a start or end tag of a block
// element. The tag name must be followed by a space, "/", ">" or the end of
// the line; attributes are not inspected.
func blockTag(line string) bool {
	prefix := "<"
	if strings.HasPrefix(line, "</") {
		prefix = "</"
	}
	name := line[len(prefix):]
	if i := strings.IndexAny(name, " \t/>"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return false
	}

	z := html.NewTokenizer(strings.NewReader(prefix + name + ">"))
	switch z.Next() {
	case html.StartTagToken, html.EndTagToken:
	default:
		return false
	}
	tag, _ := z.TagName()
	return htmlBlockTags[atom.Lookup(tag)]
}

// HTMLBlock recognizes raw HTML blocks opened by a block-level tag, a
// comment, a declaration or a processing instruction. The block runs to the
// next blank line.
func HTMLBlock(s *block.State, startLine, endLine int, silent bool) bool {
	pos, eol := lineBounds(s, startLine)
	if indentedCode(s, startLine) || pos+2 >= eol {
		return false
	}
	if s.Src[pos] != '<' {
		return false
	}

	switch ch := s.Src[pos+1]; ch {
	case '!', '?':
	default:
		if !blockTag(s.Src[pos:eol]) {
			return false
		}
	}

	if silent {
		return true
	}

	next := startLine + 1
	for next < endLine && !s.IsEmpty(next) && s.TShift[next] >= s.BlkIndent {
		next++
	}

	s.Line = next
	tok := s.Push("html_block", "", 0)
	tok.Map = [2]int{startLine, s.Line}
	tok.Content = s.Lines(startLine, next, s.BlkIndent, true)
	return true
}
