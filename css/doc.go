// Package css provides scanning and rendering of CSS size literals (a number
// with an optional unit such as 12px, -0.5em or 100%) together with a
// stylesheet model built on top of it.
//
// Size literals are read from a Stream by ParseSize. Units are recognized by
// longest match against a fixed table of absolute, relative and non-size
// spellings, case-insensitively, and stored in their canonical spelling.
// Rendering is locale independent and produces the shortest decimal form:
//
//	0.50em  -> .5em
//	-0.25px -> -.25px
//	1e2PX   -> 100px
//
// Stylesheets are parsed with github.com/tdewolff/parse/v2/css into Items
// kept in source order. Compact rewrites every numeric token of declaration
// values and at-rule preludes through the size renderer.
package css
