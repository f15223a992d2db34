package rules

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

var (
	delimiterRow  = regexp.MustCompile(`^[-:| ]+$`)
	delimiterCell = regexp.MustCompile(`^:?-+:?$`)
)

// tableLine returns line with the container indent removed.
func tableLine(s *block.State, line int) string {
	pos := s.BMarks[line] + min(max(s.TShift[line], 0), s.BlkIndent)
	return s.Src[pos:s.EMarks[line]]
}

// splitRow splits a table row on '|' honoring backslash escapes and code
// spans. An unclosed backtick counts as a plain character.
func splitRow(str string) []string {
	var cells []string
	escapes := 0
	lastPos := 0
	backTicked := false
	lastBackTick := 0

	for pos := 0; pos < len(str); {
		switch ch := str[pos]; {
		case ch == '`' && escapes%2 == 0:
			backTicked = !backTicked
			lastBackTick = pos
		case ch == '|' && escapes%2 == 0 && !backTicked:
			cells = append(cells, str[lastPos:pos])
			lastPos = pos + 1
		case ch == '\\':
			escapes++
		default:
			escapes = 0
		}
		pos++

		if pos == len(str) && backTicked {
			backTicked = false
			pos = lastBackTick + 1
		}
	}
	return append(cells, str[lastPos:])
}

func trimPipes(row string) string {
	row = strings.TrimPrefix(row, "|")
	return strings.TrimSuffix(row, "|")
}

// Table recognizes GFM pipe tables: a header row, a delimiter row that sets
// column alignment, and body rows until a line without '|'.
func Table(s *block.State, startLine, endLine int, silent bool) bool {
	if startLine+2 > endLine {
		return false
	}

	next := startLine + 1
	if s.TShift[next] < s.BlkIndent || indentedCode(s, next) {
		return false
	}

	pos, eol := lineBounds(s, next)
	if pos >= eol {
		return false
	}
	if ch := s.Src[pos]; ch != '|' && ch != '-' && ch != ':' {
		return false
	}

	text := tableLine(s, next)
	if !delimiterRow.MatchString(text) {
		return false
	}

	columns := strings.Split(text, "|")
	var aligns []string
	for i, col := range columns {
		t := strings.TrimSpace(col)
		if t == "" {
			// empty cells are allowed at the edges only
			if i == 0 || i == len(columns)-1 {
				continue
			}
			return false
		}
		if !delimiterCell.MatchString(t) {
			return false
		}
		switch {
		case strings.HasSuffix(t, ":") && strings.HasPrefix(t, ":"):
			aligns = append(aligns, "center")
		case strings.HasSuffix(t, ":"):
			aligns = append(aligns, "right")
		case strings.HasPrefix(t, ":"):
			aligns = append(aligns, "left")
		default:
			aligns = append(aligns, "")
		}
	}

	text = strings.TrimSpace(tableLine(s, startLine))
	if !strings.Contains(text, "|") {
		return false
	}
	header := splitRow(trimPipes(text))
	columnCount := len(header)
	if columnCount > len(aligns) {
		return false
	}

	if silent {
		return true
	}

	cell := func(typ, tag string, i int, content string, lines [2]int) {
		tok := s.Push(typ+"_open", tag, 1)
		tok.Map = lines
		if aligns[i] != "" {
			tok.SetAttr("style", "text-align:"+aligns[i])
		}
		tok = s.Push("inline", "", 0)
		tok.Content = strings.TrimSpace(content)
		tok.Map = lines
		s.Push(typ+"_close", tag, -1)
	}

	headLines := [2]int{startLine, startLine + 1}
	tableIdx := len(s.Tokens)
	s.Push("table_open", "table", 1).Map = [2]int{startLine, 0}
	s.Push("thead_open", "thead", 1).Map = headLines
	s.Push("tr_open", "tr", 1).Map = headLines
	for i, c := range header {
		cell("th", "th", i, c, headLines)
	}
	s.Push("tr_close", "tr", -1)
	s.Push("thead_close", "thead", -1)

	bodyIdx := len(s.Tokens)
	s.Push("tbody_open", "tbody", 1).Map = [2]int{startLine + 2, 0}

	for next = startLine + 2; next < endLine; next++ {
		if s.TShift[next] < s.BlkIndent {
			break
		}
		text = strings.TrimSpace(tableLine(s, next))
		if !strings.Contains(text, "|") {
			break
		}
		row := splitRow(trimPipes(text))
		rowLines := [2]int{next, next + 1}

		s.Push("tr_open", "tr", 1).Map = rowLines
		for i := range columnCount {
			content := ""
			if i < len(row) {
				content = row[i]
			}
			cell("td", "td", i, content, rowLines)
		}
		s.Push("tr_close", "tr", -1)
	}

	s.Push("tbody_close", "tbody", -1)
	s.Push("table_close", "table", -1)

	s.Tokens[tableIdx].Map[1] = next
	s.Tokens[bodyIdx].Map[1] = next
	s.Line = next
	return true
}
