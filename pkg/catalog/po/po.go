package po

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/langpack/pkg/catalog"
)

func init() {
	catalog.RegisterFormat(".po", Unmarshal)
	catalog.RegisterFormat(".pot", Unmarshal)
}

// section tracks which field string continuations append to.
type section int

const (
	secNone section = iota
	secCtx
	secID
	secIDPlural
	secStr
	secStrForm
)

type draft struct {
	startLine int
	refs      []string
	fuzzy     bool
	ctx       string
	id        string
	idPlural  string
	str       string
	forms     []string
	formIdx   int
	sec       section
	hasID     bool
	hasPlural bool
	hasStr    bool
}

// Unmarshal parses PO file data into catalog entries in file order. The
// header entry is not returned as an entry; its Plural-Forms line, when
// present and valid, becomes the returned plural rule.
func Unmarshal(data []byte) ([]catalog.Entry, *catalog.PluralRule, error) {
	var (
		entries []catalog.Entry
		rule    *catalog.PluralRule
	)
	d := &draft{}

	flush := func() {
		defer func() { *d = draft{} }()
		if !d.hasID {
			return
		}
		if d.id == "" && d.ctx == "" {
			if r, ok := headerPluralRule(d.str); ok {
				rule = &r
			}
			return
		}
		e := catalog.Entry{
			Key:        d.id,
			Context:    d.ctx,
			PluralKey:  d.idPlural,
			Fuzzy:      d.fuzzy,
			References: d.refs,
			Line:       d.startLine,
		}
		if d.hasPlural {
			e.Plurals = d.forms
		} else {
			e.Translation = d.str
		}
		entries = append(entries, e)
	}

	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#~"), strings.HasPrefix(line, "#|"):
			// Obsolete entries and previous-msgid comments carry no live data.
		case strings.HasPrefix(line, "#,"):
			for _, flag := range strings.Split(line[2:], ",") {
				if strings.TrimSpace(flag) == "fuzzy" {
					d.fuzzy = true
				}
			}
		case strings.HasPrefix(line, "#:"):
			d.refs = append(d.refs, strings.Fields(line[2:])...)
		case strings.HasPrefix(line, "#"):
			// Translator and extracted comments are not carried over.
		case strings.HasPrefix(line, "msgctxt"):
			if d.hasStr {
				flush()
			}
			s, err := unquote(strings.TrimPrefix(line, "msgctxt"))
			if err != nil {
				return nil, nil, lineErr(n, err)
			}
			d.ctx = s
			d.sec = secCtx
			if d.startLine == 0 {
				d.startLine = n
			}
		case strings.HasPrefix(line, "msgid_plural"):
			s, err := unquote(strings.TrimPrefix(line, "msgid_plural"))
			if err != nil {
				return nil, nil, lineErr(n, err)
			}
			d.idPlural = s
			d.hasPlural = true
			d.sec = secIDPlural
		case strings.HasPrefix(line, "msgid"):
			if d.hasStr {
				flush()
			}
			s, err := unquote(strings.TrimPrefix(line, "msgid"))
			if err != nil {
				return nil, nil, lineErr(n, err)
			}
			d.id = s
			d.hasID = true
			d.sec = secID
			if d.startLine == 0 {
				d.startLine = n
			}
		case strings.HasPrefix(line, "msgstr["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, nil, lineErr(n, fmt.Errorf("unterminated msgstr index"))
			}
			idx, err := strconv.Atoi(line[len("msgstr["):end])
			if err != nil || idx < 0 || idx > 99 {
				return nil, nil, lineErr(n, fmt.Errorf("bad msgstr index %q", line[len("msgstr["):end]))
			}
			s, err := unquote(line[end+1:])
			if err != nil {
				return nil, nil, lineErr(n, err)
			}
			for len(d.forms) <= idx {
				d.forms = append(d.forms, "")
			}
			d.forms[idx] = s
			d.formIdx = idx
			d.hasPlural = true
			d.hasStr = true
			d.sec = secStrForm
		case strings.HasPrefix(line, "msgstr"):
			s, err := unquote(strings.TrimPrefix(line, "msgstr"))
			if err != nil {
				return nil, nil, lineErr(n, err)
			}
			d.str = s
			d.hasStr = true
			d.sec = secStr
		case strings.HasPrefix(line, `"`):
			s, err := unquote(line)
			if err != nil {
				return nil, nil, lineErr(n, err)
			}
			if err := d.appendTo(s); err != nil {
				return nil, nil, lineErr(n, err)
			}
		default:
			return nil, nil, lineErr(n, fmt.Errorf("unexpected input %q", line))
		}
	}
	flush()

	return entries, rule, nil
}

func (d *draft) appendTo(s string) error {
	switch d.sec {
	case secCtx:
		d.ctx += s
	case secID:
		d.id += s
	case secIDPlural:
		d.idPlural += s
	case secStr:
		d.str += s
	case secStrForm:
		d.forms[d.formIdx] += s
	default:
		return fmt.Errorf("string continuation without a preceding keyword")
	}
	return nil
}

func headerPluralRule(header string) (catalog.PluralRule, bool) {
	for _, line := range strings.Split(header, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Plural-Forms:"); ok {
			rule, err := catalog.ParsePluralForms(strings.TrimSpace(v))
			if err != nil {
				return catalog.PluralRule{}, false
			}
			return rule, true
		}
	}
	return catalog.PluralRule{}, false
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return "", fmt.Errorf("expected quoted string, got %q", s)
	}
	out, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("bad string %s", s)
	}
	return out, nil
}

func lineErr(n int, err error) error {
	return fmt.Errorf("%w: line %d: %v", ErrSyntax, n, err)
}
