package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutlineMatchesGoldmark(t *testing.T) {
	docs := map[string]string{
		"mixed": "# Title\n\nSome text\nmore text\n\n> quote\n\n- a\n- b\n\n1. one\n2. two\n\n" +
			"```go\ncode\n```\n\n    indented\n\n***\n\n<div>\nhtml\n</div>\n\n" +
			"| a | b |\n|---|---|\n| 1 | 2 |\n\nSetext\n======\n",
		"nested containers": "> # quoted heading\n> - item\n>\n> text\n\n- a\n\n  > b\n",
		"interruptions":     "para\n# heading\npara\n***\npara\n```\nfence\n```\n",
		"crlf and tabs":      "# Title\r\n\r\n\tcode\r\n\r\ntext\r\n",
	}
	md := newMarkdown(t, nil)

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			tokens, err := md.Parse(doc, nil)
			require.NoError(t, err)
			assert.Equal(t, ReferenceOutline([]byte(doc)), Outline(tokens))
		})
	}
}

func TestReferenceOutline(t *testing.T) {
	assert.Equal(t, []string{KindHeading, KindParagraph, KindTable},
		ReferenceOutline([]byte("# A\n\nb\n\n| x |\n|---|\n| 1 |\n")))
	assert.Empty(t, ReferenceOutline(nil))
}

func TestOutlineSkipsNestedAndUnknownTokens(t *testing.T) {
	md := newMarkdown(t, nil)
	tokens, err := md.Parse("> a\n> > b\n", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{KindBlockquote}, Outline(tokens))
}
