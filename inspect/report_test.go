package inspect

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/amazon-ion/ion-go/ion"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"cssnum/config"
)

func TestInspectValue(t *testing.T) {
	got := InspectValue("0.50em 12PX rgba(0, 0, 0, 0.50)")

	want := ValueReport{
		Value:     "0.50em 12PX rgba(0, 0, 0, 0.50)",
		Compacted: ".5em 12px rgba(0, 0, 0, .5)",
		Sizes: []SizeReport{
			{Value: 0.5, Unit: "em", Rendered: ".5em", IsSize: true, IsRelative: true},
			{Value: 12, Unit: "px", Rendered: "12px", IsSize: true},
			{Value: 0, Rendered: "0", ColorComponent: true},
			{Value: 0, Rendered: "0", ColorComponent: true},
			{Value: 0, Rendered: "0", ColorComponent: true},
			{Value: 0.5, Rendered: ".5", IsRelative: true, ColorComponent: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("InspectValue() mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectValue_NoSizes(t *testing.T) {
	got := InspectValue("bold")
	if got.Sizes == nil || len(got.Sizes) != 0 {
		t.Errorf("Sizes = %#v, want empty non-nil slice", got.Sizes)
	}
	if got.Compacted != "bold" {
		t.Errorf("Compacted = %q, want bold", got.Compacted)
	}
}

func TestInspectLiteral(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		color bool
		want  ValueReport
	}{
		{
			name: "unit prefix",
			text: "1.5emx",
			want: ValueReport{Value: "1.5emx", Rest: "x", Sizes: []SizeReport{
				{Text: "1.5em", Value: 1.5, Unit: "em", Rendered: "1.5em", IsSize: true, IsRelative: true},
			}},
		},
		{
			name: "non size unit",
			text: "90DEG",
			want: ValueReport{Value: "90DEG", Sizes: []SizeReport{
				{Text: "90DEG", Value: 90, Unit: "deg", Rendered: "90deg"},
			}},
		},
		{
			name: "exponent",
			text: "1e3ms",
			want: ValueReport{Value: "1e3ms", Sizes: []SizeReport{
				{Text: "1e3ms", Value: 1000, Unit: "ms", Rendered: "1000ms"},
			}},
		},
		{
			name:  "color component",
			text:  "255",
			color: true,
			want: ValueReport{Value: "255", Sizes: []SizeReport{
				{Text: "255", Value: 255, Rendered: "255", IsRelative: true, ColorComponent: true},
			}},
		},
		{
			name: "no digits",
			text: "auto",
			want: ValueReport{Value: "auto", Rest: "auto", Sizes: []SizeReport{
				{Value: 0, Rendered: "0", IsSize: true},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InspectLiteral(tt.text, tt.color)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("InspectLiteral(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func sampleReports() []ValueReport {
	return []ValueReport{
		InspectValue("0.50em 1E3ms"),
		InspectLiteral("-0.25px;", false),
		InspectValue("none"),
	}
}

func TestWrite_Yaml(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReports(), config.OutputFormatYaml); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, want := range []string{"value: 0.50em 1E3ms", "rendered: .5em", "is_relative: true", "rest:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output misses %q:\n%s", want, buf.String())
		}
	}

	var back []ValueReport
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unable to read report back: %v", err)
	}
	if diff := cmp.Diff(sampleReports(), back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("yaml report mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Ion(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReports(), config.OutputFormatIon); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "rendered") {
		t.Errorf("unexpected ion output:\n%s", buf.String())
	}

	dec := ion.NewDecoder(ion.NewReaderString(buf.String()))
	var back []ValueReport
	for {
		var r ValueReport
		err := dec.Decode(&r)
		if errors.Is(err, ion.ErrNoInput) {
			break
		}
		if err != nil {
			t.Fatalf("unable to read report back: %v", err)
		}
		back = append(back, r)
	}
	if diff := cmp.Diff(sampleReports(), back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ion report mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleReports(), config.OutputFormat(5)); err == nil {
		t.Error("Expected error for unknown format")
	}
}
