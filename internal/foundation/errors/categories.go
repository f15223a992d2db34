package errors

// ErrorCategory classifies an error for exit codes and log routing.
type ErrorCategory string

const (
	// CategoryConfig covers unreadable, malformed or contradictory configuration.
	CategoryConfig ErrorCategory = "config"
	// CategoryValidation covers user input that is well-formed but not acceptable.
	CategoryValidation ErrorCategory = "validation"
	// CategoryParse covers violations of the tokenizer/rule contract during a parse.
	CategoryParse ErrorCategory = "parse"
	// CategoryRegistry covers misuse of the rule registry API.
	CategoryRegistry   ErrorCategory = "registry"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // the command cannot continue
	SeverityError   ErrorSeverity = "error"   // the current operation failed
	SeverityWarning ErrorSeverity = "warning" // degraded but usable result
	SeverityInfo    ErrorSeverity = "info"
)

// ErrorContext carries structured details such as the rule name or line.
type ErrorContext map[string]any

// Set adds or updates a value, allocating the map on first use.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a value.
func (c ErrorContext) Get(key string) (any, bool) {
	value, ok := c[key]
	return value, ok
}

// GetString retrieves a string value.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// GetInt retrieves an int value.
func (c ErrorContext) GetInt(key string) (int, bool) {
	n, ok := c[key].(int)
	return n, ok
}
