package css

import (
	"strings"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string // Value text with whitespace runs collapsed (e.g. "1.2em", "bold", "0 auto")
	Size    *Size  // Set when the value is a single numeric token the size scanner fully understands
	Keyword string // Lowercase identifier for single keyword values: "bold", "italic", "center"
}

// IsNumeric returns true if the value is a single size literal.
func (v Value) IsNumeric() bool {
	return v.Size != nil
}

// IsKeyword returns true if the value is a single keyword.
func (v Value) IsKeyword() bool {
	return v.Keyword != ""
}

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property  string // Lowercased, except for custom properties
	Value     Value
	Important bool // !important was present and is not part of Value
	Custom    bool // Custom property (--name), value kept verbatim
}

// Rule represents a qualified rule (selectors + declarations).
type Rule struct {
	Selectors    []string      // Selector list split on top-level commas
	Declarations []Declaration // Source order, duplicates preserved
	SourceLine   int           // Line number in source for error reporting
}

// Selector returns the selector list as written in CSS.
func (r Rule) Selector() string {
	return strings.Join(r.Selectors, ", ")
}

// GetProperty returns the value of the last declaration of a property.
func (r Rule) GetProperty(name string) (Value, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == name {
			return r.Declarations[i].Value, true
		}
	}
	return Value{}, false
}

// AtRule represents any at-rule: "@import url(x);" has no block, "@media
// screen { ... }" has a block with nested items.
type AtRule struct {
	Name    string // Including "@", lowercased: "@media", "@font-face"
	Prelude string // Everything between the name and the block or semicolon
	Block   bool
	Items   []Item
}

// Item is a single entry of a stylesheet or an at-rule block.
// Exactly one of Rule, AtRule or Declaration is non-nil.
type Item struct {
	Rule        *Rule
	AtRule      *AtRule
	Declaration *Declaration // Only inside at-rule blocks such as @font-face and @page
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []Item   // All top-level items in source order
	Warnings []string // Problems met while parsing
}

// Rules returns all qualified rules, including those nested in at-rule
// blocks, in source order.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	walkItems(s.Items, func(it *Item) {
		if it.Rule != nil {
			rules = append(rules, *it.Rule)
		}
	})
	return rules
}

// RulesBySelector returns all rules whose selector list contains selector.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, r := range s.Rules() {
		for _, sel := range r.Selectors {
			if sel == selector {
				matches = append(matches, r)
				break
			}
		}
	}
	return matches
}

// Imports returns all @import preludes from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var imports []string
	for _, item := range s.Items {
		if item.AtRule != nil && item.AtRule.Name == "@import" {
			imports = append(imports, item.AtRule.Prelude)
		}
	}
	return imports
}

// Declarations calls fn for every declaration in the stylesheet, nested ones
// included, allowing in-place modification.
func (s *Stylesheet) Declarations(fn func(d *Declaration)) {
	walkItems(s.Items, func(it *Item) {
		switch {
		case it.Rule != nil:
			for i := range it.Rule.Declarations {
				fn(&it.Rule.Declarations[i])
			}
		case it.Declaration != nil:
			fn(it.Declaration)
		}
	})
}

func walkItems(items []Item, fn func(it *Item)) {
	for i := range items {
		fn(&items[i])
		if items[i].AtRule != nil {
			walkItems(items[i].AtRule.Items, fn)
		}
	}
}
