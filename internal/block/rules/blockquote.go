package rules

import "git.home.luguber.info/inful/mdblock/internal/block"

// lazyLine marks a paragraph continuation line without a '>' marker.
const lazyLine = -1337

// Blockquote recognizes '>' blocks. The marker and one optional space are
// hidden from the nested tokenization by shifting BMarks and TShift of the
// owned lines; both are restored before returning.
func Blockquote(s *block.State, startLine, endLine int, silent bool) bool {
	pos, eol := lineBounds(s, startLine)
	if indentedCode(s, startLine) || pos >= eol || s.Src[pos] != '>' {
		return false
	}

	if silent {
		return true
	}

	oldIndent := s.BlkIndent
	s.BlkIndent = 0

	pos++
	if pos < eol && isSpace(s.Src[pos]) {
		pos++
	}

	oldBMarks := []int{s.BMarks[startLine]}
	oldTShift := []int{s.TShift[startLine]}
	s.BMarks[startLine] = pos
	pos = s.SkipSpaces(pos)
	lastLineEmpty := pos >= eol
	s.TShift[startLine] = pos - s.BMarks[startLine]

	next := startLine + 1
	for ; next < endLine; next++ {
		if s.TShift[next] < oldIndent {
			break
		}

		pos, eol = lineBounds(s, next)
		if pos >= eol {
			// blank line outside the quote
			break
		}

		if s.Src[pos] == '>' {
			pos++
			if pos < eol && isSpace(s.Src[pos]) {
				pos++
			}
			oldBMarks = append(oldBMarks, s.BMarks[next])
			oldTShift = append(oldTShift, s.TShift[next])
			s.BMarks[next] = pos
			pos = s.SkipSpaces(pos)
			lastLineEmpty = pos >= eol
			s.TShift[next] = pos - s.BMarks[next]
			continue
		}

		if lastLineEmpty {
			break
		}
		if s.Parser.Probe(block.ChainBlockquote, s, next, endLine) {
			break
		}

		oldBMarks = append(oldBMarks, s.BMarks[next])
		oldTShift = append(oldTShift, s.TShift[next])
		s.TShift[next] = lazyLine
	}

	open := len(s.Tokens)
	s.Push("blockquote_open", "blockquote", 1).Markup = ">"
	s.Tokens[open].Map = [2]int{startLine, 0}

	// The error, if any, is sticky on s and surfaces from the engine.
	_ = s.Parser.Nest(s, block.Scope{Kind: block.ContainerBlockquote}, startLine, next)

	s.Push("blockquote_close", "blockquote", -1).Markup = ">"
	s.Tokens[open].Map[1] = s.Line

	for i := range oldTShift {
		s.BMarks[startLine+i] = oldBMarks[i]
		s.TShift[startLine+i] = oldTShift[i]
	}
	s.BlkIndent = oldIndent
	return true
}
