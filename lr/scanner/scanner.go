/*
Package scanner provides a default scanner producing words for parsers of package lr.

The scanner is built on lexmachine, a lexer generator compiling regular
expressions into a DFA. It splits an input text into words of the categories
defined by inclr.WordType:

    Alphanumeric   identifiers and keywords: letters, digits and underscores
    Number         decimal numbers, optionally with a fraction
    String         double quoted strings, including the quotes
    Comment        line comments starting with "//"
    Symbol         operators and punctuation
    Invalid        everything else

Whitespace is not reported as a word. Line breaks following a word are
counted in the word's NewlinesAfter field.

Clients needing a different lexical structure may use any scanner they like,
as long as it produces inclr.Word values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'inclr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("inclr.scanner")
}

// DefaultOperators are the multi-character symbols recognized as a single word.
var DefaultOperators = []string{"==", "!=", "<=", ">=", "&&", "||", "->", ":=", "++", "--"}

// Punctuation are the single-character symbols.
const Punctuation = "+-*/%=!<>.,;:&|^~()[]{}"

// Token type for whitespace, never reported to clients.
const whitespace = 100

// Scanner splits input texts into words. A scanner is immutable after creation and
// may be used for any number of inputs.
type Scanner struct {
	lexer        *lexmachine.Lexer
	operators    []string
	skipComments bool
}

// Option configures a scanner.
type Option func(*Scanner)

// SkipComments drops comment words from the output.
func SkipComments(b bool) Option {
	return func(s *Scanner) {
		s.skipComments = b
	}
}

// Operators replaces the multi-character symbols of the scanner.
func Operators(ops ...string) Option {
	return func(s *Scanner) {
		s.operators = ops
	}
}

// New creates a scanner. It returns an error if compiling the DFA failed.
func New(opts ...Option) (*Scanner, error) {
	s := &Scanner{operators: DefaultOperators}
	for _, opt := range opts {
		opt(s)
	}
	s.lexer = lexmachine.NewLexer()
	s.lexer.Add([]byte(`//[^\n]*`), MakeToken(inclr.Comment))
	s.lexer.Add([]byte(`\"[^"]*\"`), MakeToken(inclr.String))
	s.lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), MakeToken(inclr.Alphanumeric))
	s.lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), MakeToken(inclr.Number))
	for _, op := range s.operators {
		s.lexer.Add(literal(op), MakeToken(inclr.Symbol))
	}
	for _, p := range Punctuation {
		s.lexer.Add(literal(string(p)), MakeToken(inclr.Symbol))
	}
	s.lexer.Add([]byte(`( |\t|\r|\n)+`), makeToken(whitespace))
	s.lexer.Add([]byte(`.`), MakeToken(inclr.Invalid))
	if err := s.lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return s, nil
}

// Scan splits input into words. Unrecognized input is reported as words of type
// inclr.Invalid; an error is returned only if the lexer fails unexpectedly.
func (s *Scanner) Scan(input string) ([]inclr.Word, error) {
	sc, err := s.lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	lines := lineStarts(input)
	var words []inclr.Word
	for {
		from := sc.TC
		tok, err, eof := sc.Next()
		if eof {
			break
		}
		if err != nil {
			if _, is := err.(*machines.UnconsumedInput); !is {
				return words, err
			}
			tracer().Errorf("scanner error: %v", err)
			to := runeEnd(input, from)
			words = append(words, inclr.Word{Value: input[from:to], Type: inclr.Invalid, Loc: lines.locate(from)})
			sc.TC = to
			continue
		}
		token := tok.(*lexmachine.Token)
		lexeme := string(token.Lexeme)
		if token.Type == int(inclr.Invalid) {
			// the DFA matches single bytes, an invalid word spans a complete character
			end := runeEnd(input, token.TC)
			lexeme = input[token.TC:end]
			sc.TC = end
		}
		switch {
		case token.Type == whitespace:
			if n := strings.Count(lexeme, "\n"); n > 0 && len(words) > 0 {
				words[len(words)-1].NewlinesAfter += n
			}
			continue
		case token.Type == int(inclr.Comment) && s.skipComments:
			continue
		}
		w := inclr.Word{
			Value: lexeme,
			Type:  inclr.WordType(token.Type),
			Loc:   lines.locate(token.TC),
		}
		tracer().Debugf("word %v", w)
		words = append(words, w)
	}
	return words, nil
}

// --- Lexer actions ---------------------------------------------------------

// MakeToken is a pre-defined action which wraps a scanned match into a token
// of a word type.
func MakeToken(wt inclr.WordType) lexmachine.Action {
	return makeToken(int(wt))
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// literal creates a regular expression matching lit, escaping every character.
func literal(lit string) []byte {
	return []byte("\\" + strings.Join(strings.Split(lit, ""), "\\"))
}

// runeEnd returns the byte offset behind the character starting at offset.
func runeEnd(input string, offset int) int {
	if offset >= len(input) {
		return len(input)
	}
	_, size := utf8.DecodeRuneInString(input[offset:])
	return offset + size
}

// --- Source locations ------------------------------------------------------

// lineIndex holds the byte offsets of the starts of lines.
type lineIndex struct {
	input  string
	starts []int
}

func lineStarts(input string) lineIndex {
	l := lineIndex{input: input, starts: []int{0}}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			l.starts = append(l.starts, i+1)
		}
	}
	return l
}

// locate returns the 1-based line and column of a byte offset. Columns count
// characters, not bytes.
func (l lineIndex) locate(offset int) inclr.SourceLocation {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	col := utf8.RuneCountInString(l.input[l.starts[line]:offset]) + 1
	return inclr.SourceLocation{Line: line + 1, Column: col}
}
