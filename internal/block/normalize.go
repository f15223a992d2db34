package block

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// TabWidth is the tab stop distance used when expanding tabs.
const TabWidth = 4

var (
	nbspToSpace = runes.Map(func(r rune) rune {
		if r == '\u00a0' {
			return ' '
		}
		return r
	})

	// Two-rune sequences come first so "\r\n" is not split.
	newlines = strings.NewReplacer(
		"\r\n", "\n",
		"\r\u0085", "\n",
		"\u0085", "\n",
		"\u2424", "\n",
		"\u2028", "\n",
		"\u2029", "\n",
	)
)

// Normalize prepares raw input for tokenization: ill-formed UTF-8 bytes
// become U+FFFD, non-breaking spaces become spaces, newline variants become
// "\n", and tabs expand to spaces up to the next multiple of TabWidth
// columns. Columns are counted in runes from the start of each line.
func Normalize(src string) string {
	src = sanitize(src)
	src = newlines.Replace(src)
	if strings.IndexByte(src, '\t') >= 0 {
		src = expandTabs(src)
	}
	return src
}

// sanitize replaces every ill-formed byte with U+FFFD and maps NBSP to a
// space. Valid input without NBSP is returned as is.
func sanitize(src string) string {
	if utf8.ValidString(src) && !strings.ContainsRune(src, '\u00a0') {
		return src
	}
	// Chained transformers keep state; build one per call.
	t := transform.Chain(runes.ReplaceIllFormed(), nbspToSpace)
	if out, _, err := transform.String(t, src); err == nil {
		return out
	}
	return sanitizeBytes(src)
}

// sanitizeBytes is sanitize without the transformer pipeline.
func sanitizeBytes(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteRune(utf8.RuneError)
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteString(src[i : i+size])
		}
		i += size
	}
	return b.String()
}

func expandTabs(src string) string {
	const spaces = "    "

	var b strings.Builder
	b.Grow(len(src) + (TabWidth-1)*strings.Count(src, "\t"))

	col := 0
	for i := 0; i < len(src); {
		switch c := src[i]; c {
		case '\n':
			b.WriteByte(c)
			col = 0
			i++
		case '\t':
			n := TabWidth - col%TabWidth
			b.WriteString(spaces[:n])
			col += n
			i++
		default:
			_, size := utf8.DecodeRuneInString(src[i:])
			b.WriteString(src[i : i+size])
			col++
			i += size
		}
	}
	return b.String()
}
