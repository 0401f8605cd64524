/*
Package langdef reads language definitions for the parsers of this module.

A language definition is a small TOML document naming a grammar and the
mapping of scanned words to terminals:

	name = "Expressions"
	grammar = [
		"Start -> Addition",
		"Addition -> Addition + Multiplication | Multiplication",
		"Multiplication -> Multiplication * Basic | Basic",
		"Basic -> number | ( Addition )",
	]

	[terminals]
	Number = "number"

Keys of table terminals are word types (see inclr.WordType). Words of
these types are mapped to the given terminal; all other words are terminals
of their own value.

Instead of a list of grammar rules, a definition may contain productions in
EBNF, as defined by package golang.org/x/exp/ebnf, together with the name of
the start production:

	name = "Lists"
	start = "List"
	ebnf = '''
	List = "(" [ Items ] ")" .
	Items = Item { "," Item } .
	Item = "atom" | List .
	'''

EBNF options, repetitions and groups are converted into fresh non-terminals.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package langdef

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/incr"
	"github.com/npillmayer/inclr/lr/lr1"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pelletier/go-toml"
)

// tracer traces with key 'inclr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("inclr.lr")
}

// ErrNoGrammar is returned for definitions with neither grammar rules nor EBNF.
var ErrNoGrammar = errors.New("language definition contains no grammar")

// Definition is the content of a language definition file.
type Definition struct {
	Name      string            `toml:"name"`
	Grammar   []string          `toml:"grammar"`
	EBNF      string            `toml:"ebnf"`
	Start     string            `toml:"start"`
	Terminals map[string]string `toml:"terminals"`
}

// LoadDefinition reads a language definition in TOML format.
func LoadDefinition(r io.Reader) (*Definition, error) {
	d := &Definition{}
	if err := toml.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("cannot read language definition: %w", err)
	}
	if len(d.Grammar) == 0 && strings.TrimSpace(d.EBNF) == "" {
		return nil, ErrNoGrammar
	}
	if d.Name == "" {
		d.Name = "G"
	}
	return d, nil
}

// LoadDefinitionFile reads a language definition from a TOML file.
func LoadDefinitionFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := LoadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Rules returns the grammar description lines of d. If d contains EBNF, the
// productions are converted.
func (d *Definition) Rules() ([]string, error) {
	if strings.TrimSpace(d.EBNF) != "" {
		return FromEBNF(d.Name, strings.NewReader(d.EBNF), d.Start)
	}
	return d.Grammar, nil
}

// Mapper returns the terminal mapper for the definition's terminals table.
func (d *Definition) Mapper() (inclr.TerminalMapper, error) {
	if len(d.Terminals) == 0 {
		return inclr.LiteralTerminals, nil
	}
	m := make(map[inclr.WordType]string, len(d.Terminals))
	for name, terminal := range d.Terminals {
		wt, err := inclr.ParseWordType(name)
		if err != nil {
			return nil, fmt.Errorf("terminals table: %w", err)
		}
		m[wt] = terminal
	}
	return inclr.TypedTerminals(m), nil
}

// Language bundles the artifacts built from a definition.
type Language struct {
	Name      string
	Grammar   *lr.Grammar
	Analysis  *lr.LRAnalysis
	Automaton *lr.Automaton
	Tables    *lr.Tables
	Mapper    inclr.TerminalMapper
}

// Build creates grammar, analysis, automaton and parse tables for d. If the grammar has
// conflicts, the language is returned together with a *lr.ConflictError,
// unless conflicts are tolerated by option.
func (d *Definition) Build(opts ...lr.TableOption) (*Language, error) {
	rules, err := d.Rules()
	if err != nil {
		return nil, err
	}
	mapper, err := d.Mapper()
	if err != nil {
		return nil, err
	}
	g, err := lr.NewGrammar(d.Name, rules)
	if err != nil {
		return nil, err
	}
	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga, opts...)
	err = lrgen.CreateTables()
	lang := &Language{
		Name:      d.Name,
		Grammar:   g,
		Analysis:  ga,
		Automaton: lrgen.Automaton(),
		Tables:    lrgen.Tables(),
		Mapper:    mapper,
	}
	tracer().Infof("language %s: %d rules, %d states", d.Name, g.Size(), lang.Tables.StateCount())
	return lang, err
}

// BatchParser creates a batch parser for the language.
func (lang *Language) BatchParser(opts ...lr1.Option) *lr1.Parser {
	return lr1.NewParser(lang.Tables, lang.Mapper, opts...)
}

// IncrementalParser creates an incremental parser for the language.
func (lang *Language) IncrementalParser(opts ...incr.Option) *incr.Parser {
	return incr.NewParser(lang.Tables, lang.Mapper, opts...)
}

// Expressions is the definition of a language of arithmetic expressions,
// respecting operator precedence.
const Expressions = `
name = "Expressions"
grammar = [
	"Start -> Addition",
	"Addition -> Addition + Multiplication | Addition - Multiplication | Multiplication",
	"Multiplication -> Multiplication * Basic | Multiplication / Basic | Basic",
	"Basic -> number | ( Addition )",
]

[terminals]
Number = "number"
`
