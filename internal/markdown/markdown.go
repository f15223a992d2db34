// Package markdown wires the block tokenizer, the default rule set and
// frontmatter handling into a configured parser.
package markdown

import (
	"log/slog"

	"git.home.luguber.info/inful/mdblock/internal/block"
	"git.home.luguber.info/inful/mdblock/internal/block/rules"
	"git.home.luguber.info/inful/mdblock/internal/config"
	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
	"git.home.luguber.info/inful/mdblock/internal/frontmatter"
	"git.home.luguber.info/inful/mdblock/internal/metrics"
)

// Markdown is a block parser configured with the default rules.
type Markdown struct {
	parser *block.Parser
	cfg    config.Parser
}

// Option configures New.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// WithLogger sets the logger handed to the block parser.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder sets the metrics recorder handed to the block parser.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// New builds a parser with the default rule table and applies the rule
// selection of cfg. Unknown rule names are configuration errors.
func New(cfg config.Parser, opts ...Option) (*Markdown, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	p := block.NewParser(
		block.WithLogger(o.logger),
		block.WithRecorder(o.recorder),
		block.WithMaxNesting(cfg.MaxNesting),
	)
	if err := rules.Register(p); err != nil {
		return nil, err
	}

	if len(cfg.EnableOnly) > 0 {
		if err := p.Ruler().EnableOnly(cfg.EnableOnly...); err != nil {
			return nil, ruleSelectionError(err, "parser.enable_only")
		}
	}
	if len(cfg.Disable) > 0 {
		if err := p.Ruler().Disable(cfg.Disable...); err != nil {
			return nil, ruleSelectionError(err, "parser.disable")
		}
	}

	return &Markdown{parser: p, cfg: cfg}, nil
}

// Parser exposes the underlying block parser, e.g. to register extra rules.
func (m *Markdown) Parser() *block.Parser {
	return m.parser
}

// Parse tokenizes src. The parser configuration is passed to rules as the
// options value; env is passed through untouched.
func (m *Markdown) Parse(src string, env any) ([]block.Token, error) {
	return m.parser.Parse(src, m.cfg, env)
}

// Document is a tokenized markdown file.
type Document struct {
	// Frontmatter holds the parsed YAML frontmatter, empty when absent or
	// when frontmatter handling is disabled.
	Frontmatter map[string]any
	// BodyLine is the file line on which the tokenized body starts.
	BodyLine int
	// Tokens carry line maps relative to the whole file.
	Tokens []block.Token
}

// ParseDocument tokenizes a file. With frontmatter handling enabled, a
// leading YAML block is parsed separately and the line maps of the body
// tokens are shifted so they point into content. A leading "---" line
// without a closing delimiter is a thematic break, not frontmatter.
func (m *Markdown) ParseDocument(content []byte, env any) (*Document, error) {
	doc := &Document{Frontmatter: map[string]any{}}
	body := content

	if m.cfg.Frontmatter {
		split := SplitFrontmatter(content)
		fields, err := split.Fields()
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid frontmatter yaml").Build()
		}
		doc.Frontmatter = fields
		doc.BodyLine = split.BodyLine
		body = split.Body
	}

	tokens, err := m.Parse(string(body), env)
	if err != nil {
		return nil, err
	}
	ShiftLines(tokens, doc.BodyLine)
	doc.Tokens = tokens
	return doc, nil
}

// SplitFrontmatter separates a leading frontmatter block from content. An
// unclosed block is not frontmatter: the whole content is the body.
func SplitFrontmatter(content []byte) frontmatter.Split {
	split, err := frontmatter.SplitDocument(content)
	if err != nil {
		return frontmatter.Split{Body: content}
	}
	return split
}

// ShiftLines adds offset to the line maps of opening and self-closing
// tokens. Closing tokens carry no map.
func ShiftLines(tokens []block.Token, offset int) {
	if offset == 0 {
		return
	}
	for i := range tokens {
		if tokens[i].Nesting >= 0 {
			tokens[i].Map[0] += offset
			tokens[i].Map[1] += offset
		}
	}
}

func ruleSelectionError(err error, field string) error {
	ce, ok := ferrors.AsClassified(err)
	if !ok {
		return err
	}
	return ferrors.WrapError(err, ferrors.CategoryConfig, "unknown rule in configuration").
		WithContext("field", field).
		WithContext("rule", ce.Context()["rule"]).
		WithHint("run 'mdblock rules' to list the registered rule names").
		Build()
}
