// Package dsl parses position-table files.
//
// A position table names the rectangular regions of every slide archetype in
// base-pixel units:
//
//	positions v1 {
//	  base 960 540
//	  slide contentSlide {
//	    headerLogo { right: 20; top: 20; width: 75 }
//	    title      { left: 25  top: 20  width: 830  height: 65 }
//	  }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	tableLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;]`},
	})

	tableParser = participle.MustBuild[File](
		participle.Lexer(tableLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// File is the root AST node of a position-table file.
type File struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Version string         `parser:"Newline* 'positions' @Ident"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Entry is one top-level statement of the table body.
type Entry struct {
	Base  *Base  `parser:"  @@"`
	Slide *Slide `parser:"| @@"`
}

// Base declares the design canvas size in base pixels.
type Base struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Width  Number         `parser:"'base' @Number"`
	Height Number         `parser:"@Number"`
}

// Slide groups the regions of one slide archetype.
type Slide struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'slide' @Ident"`
	Regions []*Region      `parser:"'{' Newline* ( @@ Newline* )* '}'"`
}

// Region is a named rectangle with its geometry fields.
type Region struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   string         `parser:"@Ident"`
	Fields []*Field       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Field is a single `key: value` geometry assignment.
type Field struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value Number         `parser:"@Number"`
}

// Number captures a decimal literal.
type Number float64

// Capture implements participle.Capture.
func (n *Number) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("number capture requires value")
	}
	f, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Parse parses a position table from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return tableParser.Parse("", r)
}

// ParseString parses a position table from a string.
func ParseString(input string) (*File, error) {
	return tableParser.ParseString("", input)
}

// ParseNamed is Parse with a file name recorded in every position.
func ParseNamed(name string, r io.Reader) (*File, error) {
	return tableParser.Parse(name, r)
}
