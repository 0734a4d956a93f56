package inspect

import (
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"
	"gopkg.in/yaml.v3"

	"cssnum/config"
	"cssnum/css"
)

// SizeReport describes a single size found in a value.
type SizeReport struct {
	Text           string  `yaml:"text,omitempty" ion:"text,omitempty"`
	Value          float64 `yaml:"value" ion:"value"`
	Unit           string  `yaml:"unit,omitempty" ion:"unit,omitempty"`
	Rendered       string  `yaml:"rendered" ion:"rendered"`
	IsSize         bool    `yaml:"is_size" ion:"is_size"`
	IsRelative     bool    `yaml:"is_relative" ion:"is_relative"`
	ColorComponent bool    `yaml:"color_component,omitempty" ion:"color_component,omitempty"`
}

// ValueReport is produced for every inspected command line argument.
type ValueReport struct {
	Value     string       `yaml:"value" ion:"value"`
	Compacted string       `yaml:"compacted,omitempty" ion:"compacted,omitempty"`
	Rest      string       `yaml:"rest,omitempty" ion:"rest,omitempty"`
	Sizes     []SizeReport `yaml:"sizes" ion:"sizes"`
}

func newSizeReport(text string, s *css.Size) SizeReport {
	return SizeReport{
		Text:           text,
		Value:          s.Size(),
		Unit:           string(s.Unit()),
		Rendered:       s.Render(),
		IsSize:         s.IsSize(),
		IsRelative:     s.IsRelative(),
		ColorComponent: s.IsColorComponent(),
	}
}

// InspectValue reports all sizes of CSS value. Numbers inside color
// functions are marked as color components.
func InspectValue(value string) ValueReport {
	r := ValueReport{
		Value:     value,
		Compacted: css.CompactValue(value),
		Sizes:     make([]SizeReport, 0),
	}
	for _, s := range css.ExtractSizes(value) {
		r.Sizes = append(r.Sizes, newSizeReport("", s))
	}
	return r
}

// InspectLiteral feeds text directly to the size scanner, reporting what was
// consumed and what was left.
func InspectLiteral(text string, isColorComponent bool) ValueReport {
	s, n := css.ParseSizeString(text, isColorComponent)
	return ValueReport{
		Value: text,
		Rest:  text[n:],
		Sizes: []SizeReport{newSizeReport(text[:n], s)},
	}
}

// Write outputs reports in requested format.
func Write(w io.Writer, reports []ValueReport, format config.OutputFormat) error {
	switch format {
	case config.OutputFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("unable to encode report: %w", err)
		}
		return enc.Close()
	case config.OutputFormatIon:
		iw := ion.NewTextWriter(w)
		for _, r := range reports {
			if err := ion.MarshalTo(iw, r); err != nil {
				return fmt.Errorf("unable to encode report: %w", err)
			}
		}
		if err := iw.Finish(); err != nil {
			return fmt.Errorf("unable to finish report: %w", err)
		}
		// text writer does not terminate last value
		_, err := io.WriteString(w, "\n")
		return err
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}
