package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"crownbind/internal/common"
)

// File is a parsed name mapping file.
type File struct {
	Version  string        `yaml:"version"`
	Mappings []TypeMapping `yaml:"mappings"`
}

// TypeMapping configures one record type.
type TypeMapping struct {
	// Type is the record type name bound by the caller.
	Type string `yaml:"type"`
	// Skip lists excluded fields.
	Skip StringOrArray `yaml:"skip,omitempty"`
	// Only, when set, excludes every field it does not list.
	Only StringOrArray `yaml:"only,omitempty"`
	// OnlyMapped excludes every field missing from Map.
	OnlyMapped *bool `yaml:"only_mapped,omitempty"`
	// Map places fields at paths.
	Map map[string]string `yaml:"map,omitempty"`
	// TrimTrailingUnderscore turns "type_" into "type".
	TrimTrailingUnderscore *bool `yaml:"trim_trailing_underscore,omitempty"`
	// NameStyle converts generated names.
	NameStyle string `yaml:"name_style,omitempty"`
	// OmitDefault lists fields left out when they hold their default; "*"
	// selects all of them.
	OmitDefault StringOrArray `yaml:"omit_default,omitempty"`
	ExtraIn     Extra         `yaml:"extra_in,omitempty"`
	ExtraOut    Extra         `yaml:"extra_out,omitempty"`
	// DebugTrail is none, first or all.
	DebugTrail string `yaml:"debug_trail,omitempty"`
	// Strict turns lax scalar coercion off or on.
	Strict *bool `yaml:"strict,omitempty"`
	// OmitAbsent writes absent optional values as null when false.
	OmitAbsent *bool `yaml:"omit_absent,omitempty"`
}

// StringOrArray accepts a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// Extra policy names.
const (
	PolicySkip    = "skip"
	PolicyForbid  = "forbid"
	PolicyKwargs  = "kwargs"
	PolicyTargets = "targets"
)

// Extra is an extra data policy: a policy name or a targets list.
type Extra struct {
	Policy  string
	Targets []string
}

// IsSet reports whether the policy was given.
func (e Extra) IsSet() bool {
	return e.Policy != ""
}

type extraTargets struct {
	Targets StringOrArray `yaml:"targets"`
}

// UnmarshalYAML accepts "skip", "forbid", "kwargs" or {targets: [...]}.
func (e *Extra) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var policy string

		if err := node.Decode(&policy); err != nil {
			return err
		}

		*e = Extra{Policy: policy}

		return nil

	case yaml.MappingNode:
		var t extraTargets

		if err := node.Decode(&t); err != nil {
			return err
		}

		*e = Extra{Policy: PolicyTargets, Targets: t.Targets}

		return nil

	default:
		return fmt.Errorf("line %d: expected policy name or targets mapping", node.Line)
	}
}

// MarshalYAML writes the form UnmarshalYAML reads.
func (e Extra) MarshalYAML() (any, error) {
	if e.Policy == PolicyTargets {
		return extraTargets{Targets: e.Targets}, nil
	}

	return e.Policy, nil
}

// IsZero lets omitempty drop unset policies.
func (e Extra) IsZero() bool {
	return !e.IsSet()
}
