package lint

import (
	"encoding/json"
	"fmt"
	"io"
)

// Text writes findings one per line, sorted so same-file findings stay
// together, followed by a summary.
func (r *Report) Text(w io.Writer) error {
	if len(r.Findings) == 0 {
		_, err := fmt.Fprintln(w, "no problems found")
		return err
	}
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "%s%s: %s: %s\n", pos(f), f.Severity, f.Rule, f.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s, %s, %s\n",
		count(r.Errors, "error"), count(r.Warnings, "warning"), count(r.Infos, "info"))
	return err
}

func count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func pos(f Finding) string {
	switch {
	case f.File == "":
		return ""
	case f.Line == 0:
		return f.File + ": "
	case f.Col == 0:
		return fmt.Sprintf("%s:%d: ", f.File, f.Line)
	default:
		return fmt.Sprintf("%s:%d:%d: ", f.File, f.Line, f.Col)
	}
}

// JSON writes the report as one indented JSON document.
func (r *Report) JSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
