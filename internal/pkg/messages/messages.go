// Package messages resolves message keys to user-facing text.
package messages

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultBundle []byte

// Bundle maps message keys to text
type Bundle struct {
	texts map[string]string
}

// Default returns the bundle shipped with the binary
func Default() *Bundle {
	b, err := Parse(defaultBundle)
	if err != nil {
		panic(fmt.Sprintf("messages: embedded bundle is invalid: %v", err))
	}
	return b
}

// Parse reads a flat YAML mapping of key to text
func Parse(data []byte) (*Bundle, error) {
	texts := map[string]string{}
	if err := yaml.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("failed to parse message bundle: %w", err)
	}
	return &Bundle{texts: texts}, nil
}

// Lookup returns the text for key formatted with args. Unknown keys are
// returned unchanged.
func (b *Bundle) Lookup(key string, args ...any) string {
	text, ok := b.texts[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// Has reports whether key is known
func (b *Bundle) Has(key string) bool {
	_, ok := b.texts[key]
	return ok
}
