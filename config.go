package checkgroup

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMessageWhenValueMissing is shown when a required group has nothing
// checked and no custom validity message is set.
const DefaultMessageWhenValueMissing = "Complete this field."

// Variant controls how the group label is presented.
type Variant string

const (
	// VariantLabelStacked renders the label above the children. Default.
	VariantLabelStacked Variant = "label-stacked"

	// VariantLabelHidden keeps the label for assistive technology only.
	VariantLabelHidden Variant = "label-hidden"
)

// Config is the externally settable configuration of a group.
//
// A Config is a value: the group never mutates it in place, every setter
// builds a new normalized copy. Use Normalize (or the group setters) rather
// than relying on zero values for Variant and MessageWhenValueMissing.
type Config struct {
	Label                   string  `yaml:"label" json:"label"`
	ReadOnly                bool    `yaml:"readOnly" json:"readOnly"`
	Required                bool    `yaml:"required" json:"required"`
	Multiple                bool    `yaml:"multiple" json:"multiple"`
	MessageWhenValueMissing string  `yaml:"messageWhenValueMissing" json:"messageWhenValueMissing"`
	Variant                 Variant `yaml:"variant" json:"variant"`
}

// DefaultConfig returns the configuration of a freshly created group.
func DefaultConfig() Config {
	return Config{
		MessageWhenValueMissing: DefaultMessageWhenValueMissing,
		Variant:                 VariantLabelStacked,
	}
}

// Normalize returns c with the message and variant fallbacks applied.
func (c Config) Normalize() Config {
	c.MessageWhenValueMissing = NormalizeMessage(c.MessageWhenValueMissing)
	c.Variant = NormalizeVariant(c.Variant)
	return c
}

// NormalizeMessage falls back to DefaultMessageWhenValueMissing for empty input.
func NormalizeMessage(msg string) string {
	if msg == "" {
		return DefaultMessageWhenValueMissing
	}
	return msg
}

// NormalizeVariant coerces anything but a known variant to VariantLabelStacked.
func NormalizeVariant(v Variant) Variant {
	switch v {
	case VariantLabelStacked, VariantLabelHidden:
		return v
	}
	return VariantLabelStacked
}

// Truthy reports whether v would be considered set when it arrives as a loose
// attribute value: nil, false, numeric zero and the empty string are false,
// everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

// ConfigFromMap builds a normalized Config from loosely typed attributes,
// such as a decoded YAML mapping. Keys are matched case-insensitively and may
// use either camelCase or kebab-case. Unknown keys are ignored.
func ConfigFromMap(m map[string]any) Config {
	cfg := DefaultConfig()
	for key, v := range m {
		switch strings.ToLower(strings.ReplaceAll(key, "-", "")) {
		case "label":
			cfg.Label = stringValue(v)
		case "readonly":
			cfg.ReadOnly = Truthy(v)
		case "required":
			cfg.Required = Truthy(v)
		case "multiple":
			cfg.Multiple = Truthy(v)
		case "messagewhenvaluemissing":
			cfg.MessageWhenValueMissing = stringValue(v)
		case "variant":
			cfg.Variant = Variant(stringValue(v))
		}
	}
	return cfg.Normalize()
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// LoadConfig reads a single group configuration from YAML.
//
//	label: Toppings
//	required: true
//	multiple: yes
//	message-when-value-missing: Pick at least one topping.
//
// An empty document yields DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return ConfigFromMap(raw), nil
}
