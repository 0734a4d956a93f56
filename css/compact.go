package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Numbers inside these functions are color channels or alpha.
var colorFunctions = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true, "hwb": true,
	"lab": true, "lch": true, "oklab": true, "oklch": true, "color": true,
}

// scanSizeToken runs the size scanner over a numeric token and returns nil
// unless the whole token was consumed. Tokens such as "+1px", "2x" or "10Q"
// are therefore left alone.
func scanSizeToken(data []byte, line int, color bool) *Size {
	s := NewParserStateAt(string(data), line)
	size := ParseSize(s, color)
	if !s.AtEnd() {
		return nil
	}
	return size
}

// valueToken is a lexed token with the size it holds, if any.
type valueToken struct {
	tt   css.TokenType
	data []byte
	size *Size
}

// lexValue splits raw into tokens and scans every numeric token. It tracks
// nesting of functions so numbers in color functions are marked as color
// components.
func lexValue(raw string) []valueToken {
	var (
		tokens []valueToken
		stack  []string // enclosing function names, "" for plain parentheses
	)
	inColor := func() bool {
		for _, f := range stack {
			if colorFunctions[f] {
				return true
			}
		}
		return false
	}

	l := css.NewLexer(parse.NewInputString(raw))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return tokens
		}
		// lexer reuses its buffer
		data = append([]byte(nil), data...)

		t := valueToken{tt: tt, data: data}
		switch tt {
		case css.FunctionToken:
			stack = append(stack, strings.ToLower(strings.TrimSuffix(string(data), "(")))
		case css.LeftParenthesisToken:
			stack = append(stack, "")
		case css.RightParenthesisToken:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			t.size = scanSizeToken(data, 0, inColor())
		}
		tokens = append(tokens, t)
	}
}

// CompactValue re-renders every numeric token of a CSS value in canonical
// form ("0.50em" becomes ".5em", "1E3ms" becomes "1000ms"). Tokens the size
// scanner does not fully understand are kept, as is everything else, and a
// token is never replaced by a longer one.
func CompactValue(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, t := range lexValue(raw) {
		if t.size != nil {
			if r := t.size.Render(); len(r) <= len(t.data) {
				sb.WriteString(r)
				continue
			}
		}
		sb.Write(t.data)
	}
	return sb.String()
}

// ExtractSizes returns all sizes found in a CSS value in source order.
func ExtractSizes(raw string) []*Size {
	var sizes []*Size
	for _, t := range lexValue(raw) {
		if t.size != nil {
			sizes = append(sizes, t.size)
		}
	}
	return sizes
}

// Compact applies CompactValue to all declaration values and at-rule
// preludes. Custom properties and selectors are not touched. It returns the
// number of values that changed.
func (s *Stylesheet) Compact() int {
	changed := 0
	s.Declarations(func(d *Declaration) {
		if d.Custom {
			return
		}
		raw := CompactValue(d.Value.Raw)
		if raw == d.Value.Raw {
			return
		}
		line := 0
		if d.Value.Size != nil {
			line = d.Value.Size.Line()
		}
		d.Value = parseValue(raw, line)
		changed++
	})
	walkItems(s.Items, func(it *Item) {
		if it.AtRule == nil || it.AtRule.Name == "@charset" {
			return
		}
		if prelude := CompactValue(it.AtRule.Prelude); prelude != it.AtRule.Prelude {
			it.AtRule.Prelude = prelude
			changed++
		}
	})
	return changed
}
