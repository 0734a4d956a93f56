package css_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"cssnum/css"
)

func TestParser_ElementSelector(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { text-indent: 1em; }`))

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if diff := cmp.Diff([]string{"p"}, rule.Selectors); diff != "" {
		t.Errorf("selectors mismatch (-want +got):\n%s", diff)
	}
	if rule.SourceLine != 1 {
		t.Errorf("expected source line 1, got %d", rule.SourceLine)
	}

	val, ok := rule.GetProperty("text-indent")
	if !ok {
		t.Fatal("expected text-indent property")
	}
	if !val.IsNumeric() {
		t.Fatalf("expected numeric value, got %+v", val)
	}
	if val.Size.Size() != 1 || val.Size.Unit() != "em" {
		t.Errorf("expected 1em, got %s", val.Size)
	}
	if !val.Size.IsRelative() {
		t.Error("expected em to be relative")
	}
}

func TestParser_KeywordValue(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`.epigraph { font-style: ITALIC; }`))

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	val, _ := rules[0].GetProperty("font-style")
	if !val.IsKeyword() || val.Keyword != "italic" {
		t.Errorf("expected keyword 'italic', got %+v", val)
	}
	if val.IsNumeric() {
		t.Error("keyword must not be numeric")
	}
}

func TestParser_GroupedSelectorsKeptTogether(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`h2, h3 , :is(h4, h5) { margin: 0; }`))

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if len(rules[0].Selectors) != 3 {
		t.Fatalf("expected 3 selectors, got %q", rules[0].Selectors)
	}
	if rules[0].Selectors[0] != "h2" || rules[0].Selectors[1] != "h3" {
		t.Errorf("unexpected selectors %q", rules[0].Selectors)
	}
	if !strings.Contains(rules[0].Selectors[2], "h4") || !strings.Contains(rules[0].Selectors[2], "h5") {
		t.Errorf("expected :is() to stay one selector, got %q", rules[0].Selectors[2])
	}
	if len(sheet.RulesBySelector("h3")) != 1 {
		t.Error("expected rule to be found by second selector")
	}
}

func TestParser_ComplexSelectorsKept(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
		div > p { margin: 0; }
		a[href] { color: red; }
		li:first-child { padding: 0; }
	`))

	rules := sheet.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if len(sheet.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", sheet.Warnings)
	}
}

func TestParser_DeclarationOrderAndDuplicates(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { width: 100px; Width: 50%; margin: 0 auto; }`))

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	var props []string
	for _, d := range rules[0].Declarations {
		props = append(props, d.Property)
	}
	if diff := cmp.Diff([]string{"width", "width", "margin"}, props); diff != "" {
		t.Errorf("declaration order mismatch (-want +got):\n%s", diff)
	}

	val, _ := rules[0].GetProperty("width")
	if val.Raw != "50%" {
		t.Errorf("expected last width to win, got %q", val.Raw)
	}
	margin, _ := rules[0].GetProperty("margin")
	if margin.Raw != "0 auto" || margin.IsNumeric() || margin.IsKeyword() {
		t.Errorf("unexpected margin value %+v", margin)
	}
}

func TestParser_Important(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { color: red !important; margin: 2px ! IMPORTANT; }`))

	rules := sheet.Rules()
	if len(rules) != 1 || len(rules[0].Declarations) != 2 {
		t.Fatalf("unexpected parse result: %+v", rules)
	}
	for _, d := range rules[0].Declarations {
		if !d.Important {
			t.Errorf("%s: expected important flag", d.Property)
		}
		if strings.Contains(strings.ToLower(d.Value.Raw), "important") {
			t.Errorf("%s: important must be stripped from value, got %q", d.Property, d.Value.Raw)
		}
	}
	margin, _ := rules[0].GetProperty("margin")
	if !margin.IsNumeric() || margin.Size.Render() != "2px" {
		t.Errorf("expected margin 2px, got %+v", margin)
	}
}

func TestParser_CustomProperty(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`:root { --gap: 0.50em; }`))

	rules := sheet.Rules()
	if len(rules) != 1 || len(rules[0].Declarations) != 1 {
		t.Fatalf("unexpected parse result: %+v", rules)
	}
	d := rules[0].Declarations[0]
	if !d.Custom || d.Property != "--gap" {
		t.Errorf("expected custom property --gap, got %+v", d)
	}
	if d.Value.Raw != "0.50em" {
		t.Errorf("expected custom value kept verbatim, got %q", d.Value.Raw)
	}
}

func TestParser_MediaBlock(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
p { margin: 0; }
@media screen and (max-width: 600px) {
	p { margin: 1em; }
	h1 { font-size: 2em; }
}
`))

	if len(sheet.Items) != 2 {
		t.Fatalf("expected 2 top-level items, got %d", len(sheet.Items))
	}
	at := sheet.Items[1].AtRule
	if at == nil {
		t.Fatal("expected second item to be an at-rule")
	}
	if at.Name != "@media" || !at.Block {
		t.Errorf("expected @media block, got %q block=%v", at.Name, at.Block)
	}
	if !strings.Contains(at.Prelude, "max-width") || !strings.Contains(at.Prelude, "600px") {
		t.Errorf("unexpected prelude %q", at.Prelude)
	}
	if len(at.Items) != 2 {
		t.Fatalf("expected 2 nested rules, got %d", len(at.Items))
	}
	if len(sheet.Rules()) != 3 {
		t.Errorf("expected Rules() to include nested rules, got %d", len(sheet.Rules()))
	}
	if line := at.Items[1].Rule.SourceLine; line != 5 {
		t.Errorf("expected nested h1 rule on line 5, got %d", line)
	}
}

func TestParser_FontFace(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`@font-face {
		font-family: "MyFont";
		src: url("fonts/myfont.woff2");
		font-weight: bold;
	}`))

	if len(sheet.Items) != 1 || sheet.Items[0].AtRule == nil {
		t.Fatalf("expected single at-rule, got %+v", sheet.Items)
	}
	at := sheet.Items[0].AtRule
	if at.Name != "@font-face" {
		t.Errorf("expected @font-face, got %q", at.Name)
	}
	var props []string
	for _, it := range at.Items {
		if it.Declaration == nil {
			t.Fatalf("expected declarations only, got %+v", it)
		}
		props = append(props, it.Declaration.Property)
	}
	if diff := cmp.Diff([]string{"font-family", "src", "font-weight"}, props); diff != "" {
		t.Errorf("font-face declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Import(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`@import url("base.css");
@import "print.css" print;
p { margin: 0; }`))

	imports := sheet.Imports()
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %v", len(imports), imports)
	}
	if !strings.Contains(imports[0], "base.css") {
		t.Errorf("unexpected first import %q", imports[0])
	}
	if !strings.Contains(imports[1], "print.css") || !strings.Contains(imports[1], "print") {
		t.Errorf("unexpected second import %q", imports[1])
	}
}

func TestParser_Comments(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`/* header */
p { /* inside */ margin: 0; }
/* trailer */`))

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if len(rules[0].Declarations) != 1 {
		t.Errorf("expected 1 declaration, got %d", len(rules[0].Declarations))
	}
}

func TestParser_NumericValues(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		render string
		unit   css.Unit
	}{
		{"em", "1.5em", "1.5em", "em"},
		{"px", "12px", "12px", "px"},
		{"uppercase unit", "12PX", "12px", "px"},
		{"percent", "50%", "50%", "%"},
		{"unitless", "0.5", ".5", css.UnitNone},
		{"negative", "-2.0pt", "-2pt", "pt"},
		{"exponent", "1e2px", "100px", "px"},
		{"time", "150ms", "150ms", "ms"},
	}

	p := css.NewParser(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := p.Parse([]byte("p { x: " + tt.input + "; }"))
			rules := sheet.Rules()
			if len(rules) != 1 {
				t.Fatalf("expected 1 rule, got %d", len(rules))
			}
			val, _ := rules[0].GetProperty("x")
			if !val.IsNumeric() {
				t.Fatalf("expected numeric value for %q, got %+v", tt.input, val)
			}
			if val.Size.Unit() != tt.unit {
				t.Errorf("unit = %q, want %q", val.Size.Unit(), tt.unit)
			}
			if val.Size.Render() != tt.render {
				t.Errorf("Render() = %q, want %q", val.Size.Render(), tt.render)
			}
			if val.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", val.Raw, tt.input)
			}
		})
	}
}

func TestParser_UnknownUnitNotNumeric(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`img { image-resolution: 2dppx; width: +3px; }`))

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	for _, d := range rules[0].Declarations {
		if d.Value.IsNumeric() {
			t.Errorf("%s: %q must not be treated as a size", d.Property, d.Value.Raw)
		}
	}
}

func TestStylesheet_String(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`@import url("a.css");
p,h1{margin:0 auto;color:red!important}
@media print{p{margin:1em}}`))

	want := `@import url("a.css");

p, h1 {
  margin: 0 auto;
  color: red !important;
}

@media print {
  p {
    margin: 1em;
  }
}
`
	if diff := cmp.Diff(want, sheet.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestStylesheet_WriteMinified(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p, h1 { margin: 0 auto; color: red !important; }
@media print { p { margin: 1em; } }
@font-face { font-family: "X"; src: url(x.woff); }`))

	var buf bytes.Buffer
	n, err := sheet.WriteMinified(&buf)
	if err != nil {
		t.Fatalf("WriteMinified returned error: %v", err)
	}
	if int(n) != buf.Len() {
		t.Errorf("WriteMinified reported %d bytes, wrote %d", n, buf.Len())
	}

	want := `p,h1{margin:0 auto;color:red!important}@media print{p{margin:1em}}@font-face{font-family:"X";src:url(x.woff)}`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteMinified mismatch (-want +got):\n%s", diff)
	}
}

func TestStylesheet_RoundTrip(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	first := p.Parse([]byte(`p { margin: 0; } @media screen { h1 { font-size: 2em; } }`)).String()
	second := p.Parse([]byte(first)).String()
	if first != second {
		t.Errorf("output is not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestStylesheet_WriteTo(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { margin: 0; }`))

	var buf bytes.Buffer
	n, err := sheet.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo returned error: %v", err)
	}
	if n == 0 {
		t.Error("WriteTo returned 0 bytes")
	}
	if buf.String() != sheet.String() {
		t.Errorf("WriteTo and String differ:\n%s\n%s", buf.String(), sheet.String())
	}
}
