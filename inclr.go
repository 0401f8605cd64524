package inclr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EndMarker is the synthetic terminal denoting the end of input.
const EndMarker = "$"

// --- Scanned words ---------------------------------------------------------

// WordType is a category type for a scanned Word.
type WordType int8

// Word categories produced by scanners.
const (
	Alphanumeric WordType = iota
	Comment
	Number
	String
	Symbol
	Invalid
)

var wordTypeNames = [...]string{"Alphanumeric", "Comment", "Number", "String", "Symbol", "Invalid"}

func (wt WordType) String() string {
	if wt < 0 || int(wt) >= len(wordTypeNames) {
		return fmt.Sprintf("WordType(%d)", int(wt))
	}
	return wordTypeNames[wt]
}

// ParseWordType returns the word type for a name as returned by WordType.String.
// Matching is case-insensitive.
func ParseWordType(name string) (WordType, error) {
	for i, n := range wordTypeNames {
		if strings.EqualFold(n, name) {
			return WordType(i), nil
		}
	}
	return Invalid, fmt.Errorf("unknown word type %q", name)
}

// SourceLocation is a 1-based line/column position within an input text.
type SourceLocation struct {
	Line   int
	Column int
}

func (loc SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}

// Word represents an input word. Words are usually produced by a scanner and
// are mapped to terminals of a grammar by a TerminalMapper.
//
// An example would be a word for a floating point number:
//
//    Value         = "3.1416"   // the text as it appeared in the input
//    Type          = Number     // word category
//    Loc           = 4:12       // line 4, column 12
//    NewlinesAfter = 1          // the word ends its line
//
type Word struct {
	Value         string
	Type          WordType
	Loc           SourceLocation
	NewlinesAfter int
}

func (w Word) String() string {
	return fmt.Sprintf("%q/%s@%s", w.Value, w.Type, w.Loc)
}

// End returns the location just behind the last character of the word,
// assuming the word does not span lines.
func (w Word) End() SourceLocation {
	return SourceLocation{Line: w.Loc.Line, Column: w.Loc.Column + utf8.RuneCountInString(w.Value)}
}

// --- Terminal mapping ------------------------------------------------------

// TerminalMapper maps a scanned word to a terminal label of a grammar.
// This lets one scanner feed grammars with different terminal vocabularies.
type TerminalMapper func(Word) string

// LiteralTerminals is a TerminalMapper which uses a word's value as its terminal.
func LiteralTerminals(w Word) string {
	return w.Value
}

// TypedTerminals creates a TerminalMapper which maps words of the types given as
// keys of m to a common terminal label (e.g., every Number word to "number").
// All other words are mapped to their value.
func TypedTerminals(m map[WordType]string) TerminalMapper {
	labels := make(map[WordType]string, len(m))
	for t, l := range m {
		labels[t] = l
	}
	return func(w Word) string {
		if l, ok := labels[w.Type]; ok {
			return l
		}
		return w.Value
	}
}
