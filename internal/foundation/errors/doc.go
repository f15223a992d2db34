// Package errors provides the classified error type used across mdblock.
//
// Errors carry a category (parse, registry, config, ...), a severity,
// structured context such as the offending rule name or source line, and an
// optional hint telling the user how to fix the problem:
//
//	err := errors.ParseError("no block rule matched line").
//		WithContext("line", 12).
//		WithCause(block.ErrNoMatchingRule).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
