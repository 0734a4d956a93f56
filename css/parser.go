package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured items.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// parseRun holds state of a single Parse call.
type parseRun struct {
	*Parser
	input    *parse.Input
	grammar  *css.Parser
	sheet    *Stylesheet
	newlines []int // byte offsets of '\n' in the source
}

// Parse parses CSS text into a Stylesheet. Nothing is dropped: unknown
// at-rules and complex selectors are kept as written. Comments are not
// preserved.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]Item, 0),
		Warnings: make([]string, 0),
	}

	// Log parsing start with source identifier if provided
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	run := &parseRun{
		Parser:   p,
		input:    input,
		grammar:  css.NewParser(input, false),
		sheet:    sheet,
		newlines: newlineOffsets(data),
	}
	sheet.Items = run.parseItems(false)
	return sheet
}

func newlineOffsets(data []byte) []int {
	var offsets []int
	for i, c := range data {
		if c == '\n' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// line returns the 1-based line of the current tokenizer position.
func (r *parseRun) line() int {
	return sort.SearchInts(r.newlines, r.input.Offset()) + 1
}

func (r *parseRun) warn(msg string) {
	r.sheet.Warnings = append(r.sheet.Warnings, fmt.Sprintf("line %d: %s", r.line(), msg))
}

// parseItems collects items until the end of input or, when nested, until
// the end of the enclosing at-rule block.
func (r *parseRun) parseItems(nested bool) []Item {
	var (
		items   []Item
		pending []css.Token // selector tokens of a comma separated group seen so far
	)

	for {
		gt, _, data := r.grammar.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := r.grammar.Err(); err != nil && !errors.Is(err, io.EOF) {
				r.log.Debug("CSS parse error", zap.Error(err))
				r.warn(err.Error())
			}
			return items

		case css.EndAtRuleGrammar:
			if nested {
				return items
			}

		case css.CommentGrammar:
			continue

		case css.AtRuleGrammar:
			at := &AtRule{
				Name:    strings.ToLower(string(data)),
				Prelude: joinTokens(r.grammar.Values()),
			}
			r.log.Debug("Parsed @-rule", zap.String("rule", at.Name), zap.String("prelude", at.Prelude))
			items = append(items, Item{AtRule: at})

		case css.BeginAtRuleGrammar:
			at := &AtRule{
				Name:    strings.ToLower(string(data)),
				Prelude: joinTokens(r.grammar.Values()),
				Block:   true,
			}
			at.Items = r.parseItems(true)
			r.log.Debug("Parsed @-rule block", zap.String("rule", at.Name), zap.Int("items", len(at.Items)))
			items = append(items, Item{AtRule: at})

		case css.QualifiedRuleGrammar:
			// the grammar parser stops at every comma of a selector list,
			// the comma itself is not among the values
			pending = appendSelectorTokens(pending, data, r.grammar.Values())
			pending = append(pending, css.Token{TokenType: css.CommaToken, Data: []byte(",")})

		case css.BeginRulesetGrammar:
			rule := &Rule{
				Selectors:  splitSelectors(appendSelectorTokens(pending, data, r.grammar.Values())),
				SourceLine: r.line(),
			}
			pending = nil
			rule.Declarations = r.parseDeclarations()
			items = append(items, Item{Rule: rule})

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			// declarations directly in at-rule blocks: @font-face, @page
			d := r.declaration(gt, data)
			if !nested {
				r.warn("declaration outside of a rule: " + d.Property)
			}
			items = append(items, Item{Declaration: &d})

		default:
			r.warn(fmt.Sprintf("unexpected %s: %q", gt, data))
		}
	}
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (r *parseRun) parseDeclarations() []Declaration {
	var decls []Declaration
	for {
		gt, _, data := r.grammar.Next()

		switch gt {
		case css.ErrorGrammar:
			// the caller will see the error again on its next call
			return decls
		case css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, r.declaration(gt, data))
		case css.CommentGrammar:
			continue
		default:
			r.warn(fmt.Sprintf("unexpected %s in declaration list: %q", gt, data))
		}
	}
}

func (r *parseRun) declaration(gt css.GrammarType, data []byte) Declaration {
	values := r.grammar.Values()
	if gt == css.CustomPropertyGrammar {
		// custom property values are arbitrary token soup, keep them as is
		var sb strings.Builder
		for _, v := range values {
			sb.Write(v.Data)
		}
		return Declaration{
			Property: string(data),
			Value:    Value{Raw: strings.TrimSpace(sb.String())},
			Custom:   true,
		}
	}

	values, important := stripImportant(values)
	return Declaration{
		Property:  strings.ToLower(string(data)),
		Value:     parseValue(joinTokens(values), r.line()),
		Important: important,
	}
}

// stripImportant removes trailing "! important" tokens.
func stripImportant(tokens []css.Token) ([]css.Token, bool) {
	end := trimWhitespaceRight(tokens, len(tokens))
	if end == 0 || tokens[end-1].TokenType != css.IdentToken || !strings.EqualFold(string(tokens[end-1].Data), "important") {
		return tokens, false
	}
	bang := trimWhitespaceRight(tokens, end-1)
	if bang == 0 || tokens[bang-1].TokenType != css.DelimToken || string(tokens[bang-1].Data) != "!" {
		return tokens, false
	}
	return tokens[:bang-1], true
}

func trimWhitespaceRight(tokens []css.Token, end int) int {
	for end > 0 && (tokens[end-1].TokenType == css.WhitespaceToken || tokens[end-1].TokenType == css.CommentToken) {
		end--
	}
	return end
}

// joinTokens builds text from tokens, collapsing whitespace to a single
// space and dropping comments.
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			space = sb.Len() > 0
		case css.CommentToken:
			continue
		default:
			if space {
				sb.WriteByte(' ')
				space = false
			}
			sb.Write(t.Data)
		}
	}
	return sb.String()
}

// appendSelectorTokens copies selector tokens to dst, the grammar parser
// reuses its value buffer between calls.
func appendSelectorTokens(dst []css.Token, data []byte, values []css.Token) []css.Token {
	if len(data) > 0 {
		dst = append(dst, css.Token{TokenType: css.IdentToken, Data: append([]byte(nil), data...)})
	}
	for _, v := range values {
		dst = append(dst, css.Token{TokenType: v.TokenType, Data: append([]byte(nil), v.Data...)})
	}
	return dst
}

// splitSelectors builds selector strings from tokens, splitting on commas
// which are not nested in parentheses or brackets.
func splitSelectors(tokens []css.Token) []string {
	var (
		selectors []string
		start     int
		depth     int
	)
	flush := func(end int) {
		if s := joinTokens(tokens[start:end]); s != "" {
			selectors = append(selectors, s)
		}
	}
	for i, t := range tokens {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth = max(depth-1, 0)
		case css.CommaToken:
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(tokens))
	return selectors
}

// parseValue classifies value text: a single numeric token becomes a Size,
// a single identifier becomes a Keyword.
func parseValue(raw string, line int) Value {
	val := Value{Raw: raw}

	l := css.NewLexer(parse.NewInputString(raw))
	tt, data := l.Next()
	if tt == css.ErrorToken {
		return val
	}
	if next, _ := l.Next(); next != css.ErrorToken {
		// more than one token
		return val
	}

	switch tt {
	case css.NumberToken, css.PercentageToken, css.DimensionToken:
		val.Size = scanSizeToken(data, line, false)
	case css.IdentToken:
		val.Keyword = strings.ToLower(string(data))
	}
	return val
}
