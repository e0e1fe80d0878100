package project

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// StringList is a []string that also accepts a single YAML scalar, so
// "catalogs: languages/*.json" and a proper list both work.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var str string
		if err := value.Decode(&str); err != nil {
			return err
		}
		*s = StringList{str}
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = StringList(list)
	default:
		return fmt.Errorf("%w: expected string or list at line %d", ErrInvalidConfig, value.Line)
	}
	return nil
}

// Duration wraps time.Duration with YAML support for strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: duration %q at line %d", ErrInvalidConfig, raw, value.Line)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
