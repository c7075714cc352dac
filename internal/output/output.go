// Package output renders run results for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/bookindex/internal/types"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatText

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (want text, json or yaml)", s)
	}
}

// IsStructured returns true if the format is JSON or YAML.
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Text renders index lines as "term<sep>p1, p2, ...", newline-joined.
func Text(lines []types.IndexLine, sep string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Term)
		b.WriteString(sep)
		for j, p := range l.Pages {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(p))
		}
	}
	return b.String()
}

// WriteLines writes index lines as text, ending with a newline when non-empty.
func WriteLines(w io.Writer, lines []types.IndexLine, sep string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, Text(lines, sep)+"\n")
	return err
}

// Encode writes data to the given writer in a structured format.
func Encode(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
