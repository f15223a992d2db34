package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies helper key stability; key drift would break log ingestion schemas.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attr    slog.Attr
	}{
		{"ParseID", KeyParseID, ParseID("p1")},
		{"Rule", KeyRule, Rule("paragraph")},
		{"Chain", KeyChain, Chain("list")},
		{"Container", KeyContainer, Container("blockquote")},
		{"Line", KeyLine, Line(3)},
		{"StartLine", KeyStartLine, StartLine(1)},
		{"EndLine", KeyEndLine, EndLine(9)},
		{"Lines", KeyLines, Lines(10)},
		{"Tokens", KeyTokens, Tokens(4)},
		{"Level", KeyLevel, Level(2)},
		{"Path", KeyPath, Path("/tmp/x.md")},
		{"DurationMS", KeyDurationMS, DurationMS(1.5)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("expected empty error value, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
