// Package presenter turns a research result into the line printed for the user.
package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dayuer/aibot-go/internal/agent"
)

// ErrNoResult is returned by Extract for a nil result or a structured result
// without a payload.
var ErrNoResult = errors.New("no result to present")

// Extract returns the text to show for result. Structured results yield their
// summary only; raw results yield the last message's content, or the whole
// result as JSON when there is no such content.
func Extract(result *agent.Result) (string, error) {
	if result == nil {
		return "", ErrNoResult
	}

	switch result.Kind {
	case agent.KindStructured:
		if result.Structured == nil {
			return "", fmt.Errorf("%w: structured result has no payload", ErrNoResult)
		}
		return result.Structured.Summary, nil
	case agent.KindRaw:
		if last := result.LastMessage(); last != nil && last.Content != "" {
			return last.Content, nil
		}
		return Raw(result), nil
	default:
		return "", fmt.Errorf("unknown result kind %q", result.Kind)
	}
}

// Raw renders result as indented JSON for diagnostics.
func Raw(result *agent.Result) string {
	if result == nil {
		return "null"
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *result)
	}
	return string(data)
}

// Present writes the extracted text to w. Extraction failures are written as
// a diagnostic line with the raw result attached; they are not returned.
func Present(w io.Writer, result *agent.Result) error {
	text, err := Extract(result)
	if err != nil {
		_, werr := fmt.Fprintln(w, "Error parsing response", err, "Raw Response - ", Raw(result))
		return werr
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
