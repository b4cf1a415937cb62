package tools

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeArgs decodes LLM-supplied arguments into a typed struct using
// `mapstructure` tags. Numbers and booleans sent as strings are accepted.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
