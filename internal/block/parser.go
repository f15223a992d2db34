package block

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mdblock/internal/logfields"
	"git.home.luguber.info/inful/mdblock/internal/metrics"
)

// DefaultMaxNesting bounds the token nesting depth of a parse.
const DefaultMaxNesting = 20

// Termination chains consulted by container rules.
const (
	ChainParagraph  = "paragraph"
	ChainBlockquote = "blockquote"
	ChainList       = "list"
)

var terminatorChains = []string{ChainParagraph, ChainBlockquote, ChainList}

// Parser is the block tokenizer engine. It owns a Ruler and keeps a compiled
// copy of its full chain and termination chains, refreshed whenever the
// Ruler is edited.
type Parser struct {
	ruler       *Ruler
	rules       []Rule
	terminators map[string][]Rule

	maxNesting int
	logger     *slog.Logger
	recorder   metrics.Recorder
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug and error records.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Parser) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithMaxNesting bounds the token nesting depth. Values below 1 are ignored.
func WithMaxNesting(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxNesting = n
		}
	}
}

// NewParser returns a parser with an empty rule registry.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		ruler:      NewRuler(),
		maxNesting: DefaultMaxNesting,
		logger:     slog.Default(),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ruler.OnChange(p.rulesUpdate)
	p.rulesUpdate()
	return p
}

// Ruler returns the rule registry. Edits take effect for the next parse.
func (p *Parser) Ruler() *Ruler {
	return p.ruler
}

// MaxNesting returns the configured nesting bound.
func (p *Parser) MaxNesting() int {
	return p.maxNesting
}

func (p *Parser) rulesUpdate() {
	p.rules = p.ruler.Rules(FullChain)
	p.terminators = make(map[string][]Rule, len(terminatorChains))
	for _, chain := range terminatorChains {
		p.terminators[chain] = p.ruler.Rules(chain)
	}
}

// Terminators returns the enabled rules of a named chain.
func (p *Parser) Terminators(chain string) []Rule {
	if rules, ok := p.terminators[chain]; ok {
		return rules
	}
	return p.ruler.Rules(chain)
}

// Probe reports whether any rule of chain would start a block at line. Rules
// run in silent mode and must not touch s.
func (p *Parser) Probe(chain string, s *State, line, endLine int) bool {
	for _, rule := range p.Terminators(chain) {
		if rule.Fn(s, line, endLine, true) {
			return true
		}
	}
	return false
}

// Parse normalizes src and tokenizes all of it. options and env are handed to
// rules through the State. Empty input yields no tokens and no error.
func (p *Parser) Parse(src string, options, env any) ([]Token, error) {
	if src == "" {
		return nil, nil
	}

	start := time.Now()
	s := NewState(Normalize(src), p, options, env)
	if err := p.Tokenize(s, s.Line, s.LineMax); err != nil {
		p.recorder.IncParseError(errorLabel(err))
		p.logger.LogAttrs(context.Background(), slog.LevelError, "Block tokenization failed",
			logfields.Lines(s.LineMax), logfields.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	p.recorder.ObserveParseDuration(elapsed)
	p.recorder.ObserveTokens(len(s.Tokens))
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "Tokenized block input",
		logfields.Lines(s.LineMax),
		logfields.Tokens(len(s.Tokens)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return s.Tokens, nil
}

// Tokenize runs the rule chain over lines [startLine, endLine) of s, appending
// tokens and moving s.Line. It stops early when a line is indented less than
// s.BlkIndent, which hands control back to an enclosing container.
//
// A rule chain that accepts nothing on a line, or a rule that accepts without
// advancing, is a fatal configuration error. The error is also recorded on s
// so enclosing container rules cannot lose it.
func (p *Parser) Tokenize(s *State, startLine, endLine int) error {
	if s.err != nil {
		return s.err
	}

	line := startLine
	hasEmptyLines := false

	for line < endLine {
		line = s.SkipEmptyLines(line)
		s.Line = line
		if line >= endLine {
			break
		}

		// Nested termination: the line left the current container.
		if s.TShift[line] < s.BlkIndent {
			break
		}

		if s.Level >= p.maxNesting {
			s.Line = endLine
			break
		}

		tokensBefore, level := len(s.Tokens), s.Level
		fired := ""
		for _, rule := range p.rules {
			ok := rule.Fn(s, line, endLine, false)
			if s.err != nil {
				return s.err
			}
			if ok {
				fired = rule.Name
				break
			}
		}

		if fired == "" {
			return s.fail(noMatchingRule(line))
		}
		if s.Line == line {
			return s.fail(stalledRule(fired, line))
		}
		p.recorder.IncRuleFired(fired)

		// Tightness counts blank lines before this block, not after it.
		s.Tight = !hasEmptyLines
		for i := tokensBefore; i < len(s.Tokens); i++ {
			if s.Tokens[i].Level == level {
				s.Tokens[i].Tight = s.Tight
			}
		}

		// A rule may consume one trailing blank line itself.
		if s.IsEmpty(s.Line - 1) {
			hasEmptyLines = true
		}

		line = s.Line
		if line < endLine && s.IsEmpty(line) {
			hasEmptyLines = true
			line++
			s.Line = line

			// Two blank lines in a row end a list.
			if line < endLine && s.ParentType == ContainerList && s.IsEmpty(line) {
				break
			}
		}
	}

	return nil
}

// Nest tokenizes lines [startLine, endLine) inside scope and restores the
// caller's scope afterwards. Container rules use it to recurse.
func (p *Parser) Nest(s *State, scope Scope, startLine, endLine int) error {
	parent := s.Scope()
	s.ParentType = scope.Kind
	s.BlkIndent = scope.Indent

	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "Nested tokenization",
		logfields.Container(string(scope.Kind)),
		logfields.StartLine(startLine),
		logfields.EndLine(endLine),
		logfields.Level(s.Level))

	err := p.Tokenize(s, startLine, endLine)

	s.ParentType = parent.Kind
	s.BlkIndent = parent.Indent
	return err
}

func errorLabel(err error) metrics.ErrorLabel {
	switch {
	case errors.Is(err, ErrNoMatchingRule):
		return metrics.ErrorNoMatchingRule
	case errors.Is(err, ErrStalledRule):
		return metrics.ErrorStalledRule
	default:
		return metrics.ErrorOther
	}
}
