package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	parses int
	tokens int
	rules  map[string]int
	errors map[ErrorLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{rules: map[string]int{}, errors: map[ErrorLabel]int{}}
}

func (t *testRecorder) ObserveParseDuration(time.Duration) { t.parses++ }
func (t *testRecorder) ObserveTokens(n int)                { t.tokens += n }
func (t *testRecorder) IncRuleFired(rule string)           { t.rules[rule]++ }
func (t *testRecorder) IncParseError(kind ErrorLabel)      { t.errors[kind]++ }

func TestRecorderContract(t *testing.T) {
	recorders := []Recorder{NoopRecorder{}, newTestRecorder()}
	for _, r := range recorders {
		r.ObserveParseDuration(time.Millisecond)
		r.ObserveTokens(3)
		r.IncRuleFired("paragraph")
		r.IncParseError(ErrorStalledRule)
	}

	tr := recorders[1].(*testRecorder)
	assert.Equal(t, 1, tr.parses)
	assert.Equal(t, 3, tr.tokens)
	assert.Equal(t, 1, tr.rules["paragraph"])
	assert.Equal(t, 1, tr.errors[ErrorStalledRule])
}
