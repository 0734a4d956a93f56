package config

import (
	"fmt"
	"strings"
)

// Specification of requested report format for size inspection.
type OutputFormat int

const (
	OutputFormatYaml OutputFormat = iota
	OutputFormatIon
)

var outputFormatNames = []string{"yaml", "ion"}

// OutputFormatNames returns a list of possible string values of OutputFormat.
func OutputFormatNames() []string {
	return append([]string(nil), outputFormatNames...)
}

func (f OutputFormat) String() string {
	if f.IsValid() {
		return outputFormatNames[f]
	}
	return fmt.Sprintf("OutputFormat(%d)", int(f))
}

// IsValid provides a quick way to determine if the typed value is part of the
// allowed enumerated values.
func (f OutputFormat) IsValid() bool {
	return f >= 0 && int(f) < len(outputFormatNames)
}

// ParseOutputFormat attempts to convert a string to an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	for i, n := range outputFormatNames {
		if strings.EqualFold(n, name) {
			return OutputFormat(i), nil
		}
	}
	return OutputFormat(0), fmt.Errorf("%q is not a valid output format, try [%s]", name, strings.Join(outputFormatNames, ", "))
}

func (f OutputFormat) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("unable to marshal invalid output format %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *OutputFormat) UnmarshalText(text []byte) error {
	v, err := ParseOutputFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
