package contract

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default message templates shared by every field kind. Variant-specific
// templates live next to their field type and are merged over these; user
// overrides passed via Messages() are merged last.
var baseMessages = map[string]string{
	"required":         "This field is required.",
	"null":             "This field may not be null.",
	"validator_failed": "Invalid value.",
}

// formatMessage expands {placeholder} markers in a message template.
// Placeholders without a matching argument are left untouched.
func formatMessage(template string, args map[string]any) string {
	if len(args) == 0 {
		return template
	}

	pairs := make([]string, 0, len(args)*2)
	for key, value := range args {
		pairs = append(pairs, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// mergeMessages layers message maps most-base first, later maps overriding
// earlier ones, and returns a fresh map.
func mergeMessages(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for kind, template := range layer {
			out[kind] = template
		}
	}
	return out
}

// MessageCatalog maps a field kind ("integer", "string", ...) to its
// message-template overrides. Catalogs are how applications relocate or
// translate validation wording without touching schema definitions.
type MessageCatalog map[string]map[string]string

// Field returns the override map for a field kind, or nil when the catalog
// does not customize it. The result is safe to pass to Messages().
func (c MessageCatalog) Field(kind string) map[string]string {
	return c[kind]
}

// ParseMessageCatalog parses a YAML document into a MessageCatalog. The
// document is a two-level map:
//
//	integer:
//	  invalid: "Expected a whole number."
//	string:
//	  blank: "Cannot be empty."
//
// A top-level entry that is not a map of strings is rejected.
func ParseMessageCatalog(content []byte) (MessageCatalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("contract: parse message catalog: %w", err)
	}

	catalog := make(MessageCatalog, len(raw))
	for kind, val := range raw {
		section, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("contract: message catalog entry %q: expected a map, got %T", kind, val)
		}

		messages := make(map[string]string, len(section))
		for key, msg := range section {
			text, ok := msg.(string)
			if !ok {
				return nil, fmt.Errorf("contract: message catalog entry %q.%q: expected a string, got %T", kind, key, msg)
			}
			messages[key] = text
		}
		catalog[kind] = messages
	}

	return catalog, nil
}
