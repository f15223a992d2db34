package block

import (
	"errors"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
)

// Sentinel causes carried by the classified errors this package returns.
// Match them with errors.Is.
var (
	// ErrNoMatchingRule means no rule of the full chain accepted a line. The
	// paragraph fallback is missing or disabled.
	ErrNoMatchingRule = errors.New("no matching block rule")
	// ErrStalledRule means a rule reported success without moving the cursor.
	ErrStalledRule = errors.New("block rule did not advance the cursor")
	// ErrRuleNotFound means a registry operation named an unknown rule.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrDuplicateRule means a rule name was registered twice.
	ErrDuplicateRule = errors.New("duplicate rule name")
)

func noMatchingRule(line int) error {
	return ferrors.ParseError("no block rule matched line").
		WithCause(ErrNoMatchingRule).
		WithContext("line", line).
		Build()
}

func stalledRule(rule string, line int) error {
	return ferrors.ParseError("block rule reported success without advancing").
		WithCause(ErrStalledRule).
		WithContext("rule", rule).
		WithContext("line", line).
		Build()
}

func ruleNotFound(name string) error {
	return ferrors.RegistryError("rule not found").
		WithCause(ErrRuleNotFound).
		WithContext("rule", name).
		Build()
}

func refNotFound(ref, name string) error {
	return ferrors.RegistryError("reference rule not found").
		WithCause(ErrRuleNotFound).
		WithContext("ref", ref).
		WithContext("rule", name).
		Build()
}

func duplicateRule(name string) error {
	return ferrors.RegistryError("rule already registered").
		WithCause(ErrDuplicateRule).
		WithContext("rule", name).
		Build()
}
