package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Envelope is the top-level shape of every command's output.
type Envelope struct {
	Data  any      `json:"data"`
	Meta  any      `json:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty"`
}

// Formats lists the accepted --format values.
var Formats = []string{"json", "edn"}

// Normalize lowercases f and maps "" to json. Unknown formats are an error.
func Normalize(f string) (string, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "", "json":
		return "json", nil
	case "edn":
		return "edn", nil
	default:
		return "", fmt.Errorf("unknown format: %s (want %s)", f, strings.Join(Formats, " or "))
	}
}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	if f == "edn" {
		return WriteEDN(w, v, pretty)
	}
	return WriteJSON(w, v, pretty)
}

// WriteData wraps v in an Envelope and writes it.
func WriteData(w io.Writer, v any, meta any, format string, pretty bool) error {
	return Write(w, Envelope{Data: v, Meta: meta}, format, pretty)
}

// WriteJSON writes strict JSON followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
