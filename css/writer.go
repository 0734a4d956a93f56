package css

import (
	"io"
	"strings"
)

// WriteTo writes the stylesheet to w in source order, implementing
// io.WriterTo. Output uses two space indentation, one declaration per line
// and a blank line between top-level items.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.AppendCSS(nil, false))
	return int64(n), err
}

// WriteMinified writes the stylesheet to w without optional whitespace.
func (s *Stylesheet) WriteMinified(w io.Writer) (int64, error) {
	n, err := w.Write(s.AppendCSS(nil, true))
	return int64(n), err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	return string(s.AppendCSS(nil, false))
}

// AppendCSS appends the CSS text of the stylesheet to dst.
func (s *Stylesheet) AppendCSS(dst []byte, minify bool) []byte {
	return appendItems(dst, s.Items, 0, minify)
}

func appendItems(dst []byte, items []Item, depth int, minify bool) []byte {
	for i := range items {
		if i > 0 && !minify && items[i].Declaration == nil && items[i-1].Declaration == nil {
			dst = append(dst, '\n')
		}
		switch it := &items[i]; {
		case it.Rule != nil:
			dst = appendRule(dst, it.Rule, depth, minify)
		case it.AtRule != nil:
			dst = appendAtRule(dst, it.AtRule, depth, minify)
		case it.Declaration != nil:
			dst = appendDeclaration(dst, it.Declaration, depth, minify, i == len(items)-1)
		}
	}
	return dst
}

func appendIndent(dst []byte, depth int) []byte {
	for range depth {
		dst = append(dst, "  "...)
	}
	return dst
}

func appendRule(dst []byte, rule *Rule, depth int, minify bool) []byte {
	if minify {
		dst = append(dst, strings.Join(rule.Selectors, ",")...)
		dst = append(dst, '{')
	} else {
		dst = appendIndent(dst, depth)
		dst = append(dst, rule.Selector()...)
		dst = append(dst, " {\n"...)
	}
	for i := range rule.Declarations {
		dst = appendDeclaration(dst, &rule.Declarations[i], depth+1, minify, i == len(rule.Declarations)-1)
	}
	if minify {
		return append(dst, '}')
	}
	dst = appendIndent(dst, depth)
	return append(dst, "}\n"...)
}

func appendDeclaration(dst []byte, d *Declaration, depth int, minify, last bool) []byte {
	if !minify {
		dst = appendIndent(dst, depth)
	}
	dst = append(dst, d.Property...)
	dst = append(dst, ':')
	if !minify {
		dst = append(dst, ' ')
	}
	dst = append(dst, d.Value.Raw...)
	if d.Important {
		if !minify {
			dst = append(dst, ' ')
		}
		dst = append(dst, "!important"...)
	}
	if minify {
		// last semicolon in a block is optional
		if !last {
			dst = append(dst, ';')
		}
		return dst
	}
	return append(dst, ";\n"...)
}

func appendAtRule(dst []byte, at *AtRule, depth int, minify bool) []byte {
	if !minify {
		dst = appendIndent(dst, depth)
	}
	dst = append(dst, at.Name...)
	if at.Prelude != "" {
		dst = append(dst, ' ')
		dst = append(dst, at.Prelude...)
	}
	if !at.Block {
		if minify {
			return append(dst, ';')
		}
		return append(dst, ";\n"...)
	}
	if minify {
		dst = append(dst, '{')
		dst = appendItems(dst, at.Items, depth+1, minify)
		return append(dst, '}')
	}
	dst = append(dst, " {\n"...)
	dst = appendItems(dst, at.Items, depth+1, minify)
	dst = appendIndent(dst, depth)
	return append(dst, "}\n"...)
}
