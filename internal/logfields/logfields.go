package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyParseID    = "parse_id"
	KeyRule       = "rule"
	KeyChain      = "chain"
	KeyContainer  = "container"
	KeyLine       = "line"
	KeyStartLine  = "start_line"
	KeyEndLine    = "end_line"
	KeyLines      = "lines"
	KeyTokens     = "tokens"
	KeyLevel      = "level"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ParseID(id string) slog.Attr       { return slog.String(KeyParseID, id) }
func Rule(name string) slog.Attr        { return slog.String(KeyRule, name) }
func Chain(name string) slog.Attr       { return slog.String(KeyChain, name) }
func Container(kind string) slog.Attr   { return slog.String(KeyContainer, kind) }
func Line(n int) slog.Attr              { return slog.Int(KeyLine, n) }
func StartLine(n int) slog.Attr         { return slog.Int(KeyStartLine, n) }
func EndLine(n int) slog.Attr           { return slog.Int(KeyEndLine, n) }
func Lines(n int) slog.Attr             { return slog.Int(KeyLines, n) }
func Tokens(n int) slog.Attr            { return slog.Int(KeyTokens, n) }
func Level(n int) slog.Attr             { return slog.Int(KeyLevel, n) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
