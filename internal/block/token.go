package block

// Token is one entry of the block token stream.
//
// Opening and closing tokens bracket container constructs (Nesting +1 and -1);
// leaf constructs such as code blocks and horizontal rules are self-closing
// (Nesting 0). Map holds the source line span [start, end) for opening and
// self-closing tokens.
type Token struct {
	Type    string      `json:"type" yaml:"type"`
	Tag     string      `json:"tag,omitempty" yaml:"tag,omitempty"`
	Nesting int         `json:"nesting" yaml:"nesting"`
	Level   int         `json:"level" yaml:"level"`
	Map     [2]int      `json:"map" yaml:"map,flow"`
	Content string      `json:"content,omitempty" yaml:"content,omitempty"`
	Info    string      `json:"info,omitempty" yaml:"info,omitempty"`
	Markup  string      `json:"markup,omitempty" yaml:"markup,omitempty"`
	Attrs   [][2]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`

	// Tight is stamped by the engine: true iff no blank line separated this
	// block from the previous block at the same nesting level.
	Tight bool `json:"tight" yaml:"tight"`

	// Block is set on every token produced by the block tokenizer, so
	// block tokens can be told apart once an inline pass adds its own.
	Block bool `json:"block" yaml:"block"`

	// Hidden marks tokens a renderer should skip, e.g. paragraph wrappers
	// inside tight lists.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Attr returns the value of the named attribute.
func (t *Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a[0] == name {
			return a[1], true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func (t *Token) SetAttr(name, value string) {
	for i := range t.Attrs {
		if t.Attrs[i][0] == name {
			t.Attrs[i][1] = value
			return
		}
	}
	t.Attrs = append(t.Attrs, [2]string{name, value})
}
