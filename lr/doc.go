/*
Package lr implements prerequisites for LR(1) parsing: grammars, grammar
analysis, the canonical LR(1) automaton and parser tables.
Parsers using the tables live in sub-packages lr1 (batch parsing) and
incr (incremental parsing).

Building a Grammar

Grammars are created from a textual description. Every line holds the rules for
one non-terminal, alternatives separated by a bar. Symbols are separated by
whitespace. Symbols never appearing on a left hand side are terminals.
An empty alternative denotes an epsilon-production.

Example:

    g, err := lr.NewGrammar("G", []string{
        "S -> A a",
        "A -> B D",
        "B -> b | ",
        "D -> d | ",
    })

This results in the following trivial grammar:

   g.Dump()

   0: S -> A a
   1: A -> B D
   2: B -> b
   3: B ->
   4: D -> d
   5: D ->

Rule 0 is the start rule. Its left hand side is the start symbol, which should
not re-appear on a right hand side with end-of-input following it.
The literal bar may be used as a terminal by writing `$single_or`.
Rules for one non-terminal have to be contiguous.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all nullable non-terminals.

    ga := lr.Analysis(g)  // analyser for grammar above
    for _, A := range g.NonTerminals() {
        fmt.Printf("FIRST(%s) = %v\n", A, ga.First(A))
    }

    // Output:
    FIRST(S) = [a b d]
    FIRST(A) = [b d]
    FIRST(B) = [b]
    FIRST(D) = [d]

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First the canonical LR(1) automaton is built from the grammar. The automaton
will then be transformed into a GOTO table and an ACTION table.
The automaton will not be thrown away, but is made available to the client.
This is intended for debugging purposes. It can be exported to Graphviz's
Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is an LRAnalysis, see above
    if err := lrgen.CreateTables(); err != nil {
        // grammar is not LR(1), see lrgen.Tables().Conflicts()
    }
    tables := lrgen.Tables()

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inclr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("inclr.lr")
}
