package block

import (
	"slices"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
)

// RuleFunc recognizes one block construct starting at startLine.
//
// In normal mode a rule that accepts the construct appends its tokens, moves
// s.Line past the consumed lines and returns true. In silent mode it only
// reports whether it would accept, without touching s. A rule that rejects
// must leave s exactly as it found it.
type RuleFunc func(s *State, startLine, endLine int, silent bool) bool

// Rule is one enabled entry of a compiled chain.
type Rule struct {
	Name string
	Fn   RuleFunc
}

// FullChain names the chain holding every enabled rule.
const FullChain = ""

type ruleEntry struct {
	name    string
	fn      RuleFunc
	chains  map[string]struct{}
	enabled bool
}

func (e *ruleEntry) inChain(chain string) bool {
	if chain == FullChain {
		return true
	}
	_, ok := e.chains[chain]
	return ok
}

// Ruler is the ordered registry of block rules.
//
// Order is precedence: the engine tries rules in registration order and the
// first acceptance wins. Each rule may also be tagged with named chains
// ("paragraph", "blockquote", "list") that container rules consult to decide
// whether a line terminates them. A rule without chain tags belongs only to
// the full chain.
//
// Compiled chains are cached and dropped on every structural edit. Listeners
// registered with OnChange are called after each successful edit so that
// holders of a compiled view can refresh it.
//
// A Ruler is configuration state: edit it before parsing starts, never while
// a parse using it is in flight.
type Ruler struct {
	entries   []*ruleEntry
	index     map[string]int
	cache     map[string][]Rule
	listeners []func()
}

// NewRuler returns an empty registry.
func NewRuler() *Ruler {
	return &Ruler{index: make(map[string]int)}
}

// Push appends a rule at the end of the order.
func (r *Ruler) Push(name string, fn RuleFunc, chains ...string) error {
	if err := r.checkNew(name, fn); err != nil {
		return err
	}
	r.entries = append(r.entries, newEntry(name, fn, chains))
	r.changed()
	return nil
}

// InsertBefore places a new rule immediately before ref.
func (r *Ruler) InsertBefore(ref, name string, fn RuleFunc, chains ...string) error {
	pos, ok := r.index[ref]
	if !ok {
		return refNotFound(ref, name)
	}
	return r.insert(pos, name, fn, chains)
}

// InsertAfter places a new rule immediately after ref.
func (r *Ruler) InsertAfter(ref, name string, fn RuleFunc, chains ...string) error {
	pos, ok := r.index[ref]
	if !ok {
		return refNotFound(ref, name)
	}
	return r.insert(pos+1, name, fn, chains)
}

func (r *Ruler) insert(pos int, name string, fn RuleFunc, chains []string) error {
	if err := r.checkNew(name, fn); err != nil {
		return err
	}
	r.entries = slices.Insert(r.entries, pos, newEntry(name, fn, chains))
	r.changed()
	return nil
}

// Replace swaps the function of an existing rule, keeping its position,
// chains and enabled state.
func (r *Ruler) Replace(name string, fn RuleFunc) error {
	pos, ok := r.index[name]
	if !ok {
		return ruleNotFound(name)
	}
	if fn == nil {
		return nilRule(name)
	}
	r.entries[pos].fn = fn
	r.changed()
	return nil
}

// Enable turns the named rules on. Unknown names fail the whole call.
func (r *Ruler) Enable(names ...string) error {
	return r.setEnabled(names, true)
}

// Disable turns the named rules off without removing them.
// Unknown names fail the whole call.
func (r *Ruler) Disable(names ...string) error {
	return r.setEnabled(names, false)
}

// EnableOnly enables exactly the named rules and disables every other one.
func (r *Ruler) EnableOnly(names ...string) error {
	if err := r.checkKnown(names); err != nil {
		return err
	}
	for _, e := range r.entries {
		e.enabled = false
	}
	for _, name := range names {
		r.entries[r.index[name]].enabled = true
	}
	r.changed()
	return nil
}

func (r *Ruler) setEnabled(names []string, enabled bool) error {
	if err := r.checkKnown(names); err != nil {
		return err
	}
	for _, name := range names {
		r.entries[r.index[name]].enabled = enabled
	}
	r.changed()
	return nil
}

// Rules returns the enabled rules of chain in order. FullChain yields every
// enabled rule. The returned slice is shared and must not be modified; it is
// only valid until the next edit.
func (r *Ruler) Rules(chain string) []Rule {
	if rules, ok := r.cache[chain]; ok {
		return rules
	}
	if r.cache == nil {
		r.cache = make(map[string][]Rule)
	}
	var rules []Rule
	for _, e := range r.entries {
		if e.enabled && e.inChain(chain) {
			rules = append(rules, Rule{Name: e.name, Fn: e.fn})
		}
	}
	rules = slices.Clip(rules)
	r.cache[chain] = rules
	return rules
}

// Names returns the names of the enabled rules of chain in order.
func (r *Ruler) Names(chain string) []string {
	rules := r.Rules(chain)
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}

// All returns every registered name in order, enabled or not.
func (r *Ruler) All() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Has reports whether name is registered.
func (r *Ruler) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// IsEnabled reports whether name is registered and enabled.
func (r *Ruler) IsEnabled(name string) bool {
	pos, ok := r.index[name]
	return ok && r.entries[pos].enabled
}

// Chains returns the chain tags of name, sorted.
func (r *Ruler) Chains(name string) []string {
	pos, ok := r.index[name]
	if !ok {
		return nil
	}
	chains := make([]string, 0, len(r.entries[pos].chains))
	for c := range r.entries[pos].chains {
		chains = append(chains, c)
	}
	slices.Sort(chains)
	return chains
}

// Len returns the number of registered rules.
func (r *Ruler) Len() int {
	return len(r.entries)
}

// OnChange registers fn to be called after every successful edit.
func (r *Ruler) OnChange(fn func()) {
	r.listeners = append(r.listeners, fn)
}

func (r *Ruler) changed() {
	clear(r.index)
	for i, e := range r.entries {
		r.index[e.name] = i
	}
	r.cache = nil
	for _, fn := range r.listeners {
		fn()
	}
}

func (r *Ruler) checkNew(name string, fn RuleFunc) error {
	if name == "" {
		return ferrors.RegistryError("rule name must not be empty").Build()
	}
	if fn == nil {
		return nilRule(name)
	}
	if _, exists := r.index[name]; exists {
		return duplicateRule(name)
	}
	return nil
}

func (r *Ruler) checkKnown(names []string) error {
	for _, name := range names {
		if _, ok := r.index[name]; !ok {
			return ruleNotFound(name)
		}
	}
	return nil
}

func newEntry(name string, fn RuleFunc, chains []string) *ruleEntry {
	e := &ruleEntry{name: name, fn: fn, enabled: true, chains: make(map[string]struct{}, len(chains))}
	for _, c := range chains {
		if c != FullChain {
			e.chains[c] = struct{}{}
		}
	}
	return e
}

func nilRule(name string) error {
	return ferrors.RegistryError("rule function must not be nil").
		WithContext("rule", name).
		Build()
}
