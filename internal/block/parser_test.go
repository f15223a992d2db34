package block

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
	"git.home.luguber.info/inful/mdblock/internal/metrics"
)

// testParagraph swallows consecutive non-blank lines that stay inside the
// current container.
func testParagraph(s *State, start, end int, silent bool) bool {
	next := start + 1
	for next < end && !s.IsEmpty(next) && s.TShift[next] >= s.BlkIndent {
		next++
	}
	if silent {
		return true
	}
	tok := s.Push("paragraph_open", "p", 1)
	tok.Map = [2]int{start, next}
	tok = s.Push("inline", "", 0)
	tok.Map = [2]int{start, next}
	tok.Content = s.Lines(start, next, s.BlkIndent, false)
	s.Push("paragraph_close", "p", -1)
	s.Line = next
	return true
}

// testBox wraps the lines between a "[" line and the next "]" line.
func testBox(s *State, start, end int, silent bool) bool {
	if s.LineText(start) != "[" {
		return false
	}
	closing := -1
	for line := start + 1; line < end; line++ {
		if s.LineText(line) == "]" {
			closing = line
			break
		}
	}
	if closing < 0 {
		return false
	}
	if silent {
		return true
	}
	s.Push("box_open", "div", 1).Map = [2]int{start, closing + 1}
	_ = s.Parser.Nest(s, Scope{Kind: ContainerBlockquote, Indent: s.BlkIndent}, start+1, closing)
	s.Push("box_close", "div", -1)
	s.Line = closing + 1
	return true
}

// testStall accepts "!" lines without consuming them.
func testStall(s *State, start, _ int, _ bool) bool {
	return s.LineText(start) == "!"
}

func newTestParser(t *testing.T, opts []Option, rules ...Rule) *Parser {
	t.Helper()
	p := NewParser(opts...)
	for _, r := range rules {
		require.NoError(t, p.Ruler().Push(r.Name, r.Fn, ChainParagraph))
	}
	return p
}

func TestParseEmptyInput(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})
	tokens, err := p.Parse("", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestParseTightTransition(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})

	tokens, err := p.Parse("a\nb\n\nc", nil, nil)
	require.NoError(t, err)

	want := []Token{
		{Type: "paragraph_open", Tag: "p", Nesting: 1, Level: 0, Map: [2]int{0, 2}, Tight: true, Block: true},
		{Type: "inline", Level: 1, Map: [2]int{0, 2}, Content: "a\nb", Block: true},
		{Type: "paragraph_close", Tag: "p", Nesting: -1, Level: 0, Tight: true, Block: true},
		{Type: "paragraph_open", Tag: "p", Nesting: 1, Level: 0, Map: [2]int{3, 4}, Block: true},
		{Type: "inline", Level: 1, Map: [2]int{3, 4}, Content: "c", Block: true},
		{Type: "paragraph_close", Tag: "p", Nesting: -1, Level: 0, Block: true},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpandsTabs(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})
	tokens, err := p.Parse("\tx", nil, nil)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "    x", tokens[1].Content)
}

func TestParseNormalizesNewlines(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})
	tokens, err := p.Parse("a\r\nb\r\n\r\nc", nil, nil)
	require.NoError(t, err)
	require.Len(t, tokens, 6)
	assert.Equal(t, "a\nb", tokens[1].Content)
}

func TestParseNoMatchingRule(t *testing.T) {
	rec := &countingRecorder{}
	p := newTestParser(t, []Option{WithRecorder(rec)}, Rule{"never", nopRule})

	tokens, err := p.Parse("text", nil, nil)
	require.Error(t, err)
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrNoMatchingRule)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryParse))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	line, _ := ce.Context().GetInt("line")
	assert.Equal(t, 0, line)
	assert.Equal(t, []metrics.ErrorLabel{metrics.ErrorNoMatchingRule}, rec.errors)
}

func TestParseStalledRule(t *testing.T) {
	p := newTestParser(t, nil, Rule{"stall", testStall}, Rule{"paragraph", testParagraph})

	_, err := p.Parse("a\n\n!", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStalledRule)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	rule, _ := ce.Context().GetString("rule")
	assert.Equal(t, "stall", rule)
	line, _ := ce.Context().GetInt("line")
	assert.Equal(t, 2, line)
}

func TestTokenizeStopsOnDoubleBlankInList(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})

	s := NewState("a\n\n\nb", p, nil, nil)
	require.NoError(t, p.Nest(s, Scope{Kind: ContainerList}, 0, s.LineMax))
	assert.Equal(t, 2, s.Line, "cursor rests on the second blank line")
	assert.Len(t, s.Tokens, 3)
	assert.Equal(t, ContainerRoot, s.ParentType, "scope restored")

	root := NewState("a\n\n\nb", p, nil, nil)
	require.NoError(t, p.Tokenize(root, 0, root.LineMax))
	assert.Equal(t, 4, root.Line)
	assert.Len(t, root.Tokens, 6)
}

func TestTokenizeSingleBlankInListContinues(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})

	s := NewState("a\n\nb", p, nil, nil)
	require.NoError(t, p.Nest(s, Scope{Kind: ContainerList}, 0, s.LineMax))
	assert.Equal(t, 3, s.Line)
	require.Len(t, s.Tokens, 6)
	assert.False(t, s.Tokens[3].Tight)
}

func TestTokenizeStopsAtShallowIndent(t *testing.T) {
	p := newTestParser(t, nil, Rule{"paragraph", testParagraph})

	s := NewState("  a\nb", p, nil, nil)
	require.NoError(t, p.Nest(s, Scope{Kind: ContainerList, Indent: 2}, 0, s.LineMax))
	assert.Equal(t, 1, s.Line)
	require.Len(t, s.Tokens, 3)
	assert.Equal(t, "a", s.Tokens[1].Content)
	assert.Zero(t, s.BlkIndent, "indent restored")
}

func TestTokenizeRespectsMaxNesting(t *testing.T) {
	src := "[\ninner\n]\nafter"

	p := newTestParser(t, nil, Rule{"box", testBox}, Rule{"paragraph", testParagraph})
	tokens, err := p.Parse(src, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"box_open", "paragraph_open", "inline", "paragraph_close", "box_close",
		"paragraph_open", "inline", "paragraph_close",
	}, tokenTypes(tokens))

	shallow := newTestParser(t, []Option{WithMaxNesting(1)}, Rule{"box", testBox}, Rule{"paragraph", testParagraph})
	assert.Equal(t, 1, shallow.MaxNesting())
	tokens, err = shallow.Parse(src, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"box_open", "box_close",
		"paragraph_open", "inline", "paragraph_close",
	}, tokenTypes(tokens))
}

func TestNestedErrorIsNotLost(t *testing.T) {
	p := newTestParser(t, nil, Rule{"box", testBox}, Rule{"stall", testStall}, Rule{"paragraph", testParagraph})

	// testBox discards the error Nest returns; the engine still reports it.
	_, err := p.Parse("[\n!\n]", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStalledRule)
}

func TestNestedTightnessIsScoped(t *testing.T) {
	p := newTestParser(t, nil, Rule{"box", testBox}, Rule{"paragraph", testParagraph})

	tokens, err := p.Parse("x\n\n[\na\n\nb\n]", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"paragraph_open", "inline", "paragraph_close",
		"box_open",
		"paragraph_open", "inline", "paragraph_close",
		"paragraph_open", "inline", "paragraph_close",
		"box_close",
	}, tokenTypes(tokens))

	assert.True(t, tokens[0].Tight)
	assert.False(t, tokens[3].Tight, "box follows a blank line")
	assert.True(t, tokens[4].Tight, "first block inside the box")
	assert.False(t, tokens[7].Tight, "blank line inside the box")
}

func TestProbeIsSilent(t *testing.T) {
	p := newTestParser(t, nil, Rule{"box", testBox}, Rule{"paragraph", testParagraph})
	s := NewState("[\nx\n]", p, nil, nil)

	assert.True(t, p.Probe(ChainParagraph, s, 0, s.LineMax))
	assert.Empty(t, s.Tokens)
	assert.Zero(t, s.Line)
	assert.False(t, p.Probe(ChainList, s, 0, s.LineMax), "no rule is tagged list")
}

func TestParseRecordsMetrics(t *testing.T) {
	rec := &countingRecorder{}
	p := newTestParser(t, []Option{WithRecorder(rec)}, Rule{"box", testBox}, Rule{"paragraph", testParagraph})

	_, err := p.Parse("a\n\n[\nb\n]", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"paragraph": 2, "box": 1}, rec.fired)
	assert.Equal(t, []int{8}, rec.tokens)
	assert.Equal(t, 1, rec.durations)
	assert.Empty(t, rec.errors)
}

func TestParseLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := newTestParser(t, []Option{WithLogger(logger)}, Rule{"never", nopRule})

	_, err := p.Parse("x", nil, nil)
	require.Error(t, err)

	var record map[string]any
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Contains(t, record["error"], "no block rule matched line")
	assert.EqualValues(t, 1, record["lines"])
}

func TestParsePassesOptionsAndEnv(t *testing.T) {
	type env struct{ seen []string }
	e := &env{}
	p := NewParser()
	require.NoError(t, p.Ruler().Push("paragraph", func(s *State, start, end int, silent bool) bool {
		s.Env.(*env).seen = append(s.Env.(*env).seen, s.Options.(string))
		return testParagraph(s, start, end, silent)
	}))

	_, err := p.Parse("a\n\nb", "opts", e)
	require.NoError(t, err)
	assert.Equal(t, []string{"opts", "opts"}, e.seen)
}

func tokenTypes(tokens []Token) []string {
	types := make([]string, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

type countingRecorder struct {
	mu        sync.Mutex
	durations int
	tokens    []int
	fired     map[string]int
	errors    []metrics.ErrorLabel
}

func (r *countingRecorder) ObserveParseDuration(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *countingRecorder) ObserveTokens(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, n)
}

func (r *countingRecorder) IncRuleFired(rule string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fired == nil {
		r.fired = make(map[string]int)
	}
	r.fired[rule]++
}

func (r *countingRecorder) IncParseError(kind metrics.ErrorLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, kind)
}
