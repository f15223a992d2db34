package rules

import (
	"strconv"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

// skipBulletMarker returns the position after a '*', '-' or '+' marker, or
// -1 when line does not start a bullet item.
func skipBulletMarker(s *block.State, line int) int {
	pos, eol := lineBounds(s, line)
	if pos >= eol {
		return -1
	}
	marker := s.Src[pos]
	pos++
	if marker != '*' && marker != '-' && marker != '+' {
		return -1
	}
	if pos < eol && !isSpace(s.Src[pos]) {
		return -1
	}
	return pos
}

// skipOrderedMarker returns the position after a "1." or "1)" marker, or -1
// when line does not start an ordered item.
func skipOrderedMarker(s *block.State, line int) int {
	pos, eol := lineBounds(s, line)
	if pos+1 >= eol {
		return -1
	}

	ch := s.Src[pos]
	pos++
	if ch < '0' || ch > '9' {
		return -1
	}

	for {
		if pos >= eol {
			return -1
		}
		ch = s.Src[pos]
		pos++
		if ch >= '0' && ch <= '9' {
			continue
		}
		if ch == ')' || ch == '.' {
			break
		}
		return -1
	}

	if pos < eol && !isSpace(s.Src[pos]) {
		return -1
	}
	return pos
}

// markTightParagraphs hides the paragraph wrappers of the items of the list
// opened at tokens[idx].
func markTightParagraphs(s *block.State, idx int) {
	level := s.Level + 2
	for i := idx + 2; i < len(s.Tokens)-2; i++ {
		if s.Tokens[i].Level == level && s.Tokens[i].Type == "paragraph_open" {
			s.Tokens[i].Hidden = true
			s.Tokens[i+2].Hidden = true
			i += 2
		}
	}
}

// List recognizes bullet and ordered lists. Each item is tokenized as a
// nested list container whose required indent is the item's content column.
// A change of marker character ends the list.
func List(s *block.State, startLine, endLine int, silent bool) bool {
	if indentedCode(s, startLine) {
		return false
	}

	ordered := true
	posAfterMarker := skipOrderedMarker(s, startLine)
	if posAfterMarker < 0 {
		ordered = false
		posAfterMarker = skipBulletMarker(s, startLine)
		if posAfterMarker < 0 {
			return false
		}
	}

	if s.Level >= s.Parser.MaxNesting() {
		return false
	}

	markerStart := s.BMarks[startLine] + s.TShift[startLine]
	marker := s.Src[posAfterMarker-1]

	if s.ParentType == block.ContainerParagraph && s.TShift[startLine] >= s.BlkIndent {
		// An empty item, or an ordered list not starting at 1, cannot
		// interrupt a paragraph. Sibling items of the enclosing list still
		// end it.
		if s.SkipSpaces(posAfterMarker) >= s.EMarks[startLine] {
			return false
		}
		if ordered && s.Src[markerStart:posAfterMarker-1] != "1" {
			return false
		}
	}

	if silent {
		return true
	}

	listIdx := len(s.Tokens)
	var tok *block.Token
	closeType, tag := "bullet_list_close", "ul"
	if ordered {
		closeType, tag = "ordered_list_close", "ol"
		tok = s.Push("ordered_list_open", tag, 1)
		if n, err := strconv.Atoi(s.Src[markerStart : posAfterMarker-1]); err == nil && n != 1 {
			tok.SetAttr("start", strconv.Itoa(n))
		}
	} else {
		tok = s.Push("bullet_list_open", tag, 1)
	}
	tok.Map = [2]int{startLine, 0}
	tok.Markup = string(marker)

	next := startLine
	tight := true
	prevEmptyEnd := false

	for next < endLine {
		contentStart := s.SkipSpaces(posAfterMarker)
		eol := s.EMarks[next]

		indentAfterMarker := contentStart - posAfterMarker
		if contentStart >= eol {
			// "-    \n  3": the item starts empty
			indentAfterMarker = 1
		}
		if indentAfterMarker > 4 {
			// the rest is indented code
			indentAfterMarker = 1
		}
		indent := posAfterMarker - s.BMarks[next] + indentAfterMarker

		item := len(s.Tokens)
		s.Push("list_item_open", "li", 1).Markup = string(marker)
		s.Tokens[item].Map = [2]int{startLine, 0}

		oldTight := s.Tight
		oldTShift := s.TShift[startLine]
		s.TShift[startLine] = contentStart - s.BMarks[startLine]
		s.Tight = true

		_ = s.Parser.Nest(s, block.Scope{Kind: block.ContainerList, Indent: indent}, startLine, endLine)

		// one loose item makes the whole list loose
		if !s.Tight || prevEmptyEnd {
			tight = false
		}
		// an item ending on a blank line loosens the list unless it is the last
		prevEmptyEnd = s.Line-startLine > 1 && s.IsEmpty(s.Line-1)

		s.TShift[startLine] = oldTShift
		s.Tight = oldTight

		s.Push("list_item_close", "li", -1).Markup = string(marker)
		next = s.Line
		startLine = next
		s.Tokens[item].Map[1] = next

		if s.Err() != nil || next >= endLine || s.IsEmpty(next) {
			break
		}
		if s.TShift[next] < s.BlkIndent {
			break
		}
		if s.Parser.Probe(block.ChainList, s, next, endLine) {
			break
		}

		if ordered {
			posAfterMarker = skipOrderedMarker(s, next)
		} else {
			posAfterMarker = skipBulletMarker(s, next)
		}
		if posAfterMarker < 0 || s.Src[posAfterMarker-1] != marker {
			break
		}
	}

	s.Push(closeType, tag, -1).Markup = string(marker)
	s.Tokens[listIdx].Map[1] = next
	s.Line = next

	if tight {
		markTightParagraphs(s, listIdx)
	}
	return true
}
