package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdblock/internal/block"
	"git.home.luguber.info/inful/mdblock/internal/logfields"
	"git.home.luguber.info/inful/mdblock/internal/markdown"
)

// Output formats of the tokenize command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TokenizeCmd implements the 'tokenize' command.
type TokenizeCmd struct {
	Path   string `arg:"" optional:"" help:"Markdown file to tokenize; reads standard input when omitted or '-'"`
	Format string `short:"f" default:"text" enum:"text,json,yaml" help:"Output format (text, json or yaml)"`
}

// Run executes the tokenize command.
func (t *TokenizeCmd) Run(g *Global) error {
	content, name, err := readInput(g, t.Path)
	if err != nil {
		return err
	}

	logger := g.Logger.With(logfields.ParseID(uuid.NewString()), logfields.Path(name))
	md, err := newMarkdown(g, logger, nil)
	if err != nil {
		return err
	}

	doc, err := md.ParseDocument(content, nil)
	if err != nil {
		return err
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "Tokenized document", logfields.Tokens(len(doc.Tokens)))

	return writeDocument(g.Out, t.Format, doc)
}

// documentView is the serialized form of a tokenized document.
type documentView struct {
	Frontmatter map[string]any `json:"frontmatter,omitempty" yaml:"frontmatter,omitempty"`
	BodyLine    int            `json:"body_line" yaml:"body_line"`
	Tokens      []block.Token  `json:"tokens" yaml:"tokens"`
}

func writeDocument(w io.Writer, format string, doc *markdown.Document) error {
	view := documentView{BodyLine: doc.BodyLine, Tokens: doc.Tokens}
	if len(doc.Frontmatter) > 0 {
		view.Frontmatter = doc.Frontmatter
	}
	if view.Tokens == nil {
		view.Tokens = []block.Token{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTree(w, doc.Tokens)
	}
}

// writeTree prints one token per line, indented by level. Opening and
// self-closing tokens show their line span; leaf content is quoted.
func writeTree(w io.Writer, tokens []block.Token) error {
	for _, tok := range tokens {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", tok.Level))
		b.WriteString(tok.Type)
		if tok.Nesting >= 0 {
			fmt.Fprintf(&b, " [%d,%d)", tok.Map[0], tok.Map[1])
		}
		if tok.Info != "" {
			b.WriteString(" info=" + strconv.Quote(tok.Info))
		}
		for _, a := range tok.Attrs {
			fmt.Fprintf(&b, " %s=%s", a[0], strconv.Quote(a[1]))
		}
		if tok.Nesting > 0 && !tok.Tight {
			b.WriteString(" loose")
		}
		if tok.Hidden {
			b.WriteString(" hidden")
		}
		if tok.Content != "" {
			b.WriteString(" " + strconv.Quote(tok.Content))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
