/*
Package document implements an editable document of words, kept in sync with
its concrete syntax tree.

A document holds the scanned words of a text together with their parse tree.
Edits are given as replacements of ranges of words. They are translated to
tree positions and handed to the incremental parser; the resulting changes are
applied to the tree. If the incremental parser gives up, the document falls
back to a full parse of the edited words.

	doc := document.New(tables, mapper)
	err := doc.Load(words)
	...
	outcome, err := doc.Replace(2, 1, newWords)  // replace the third word

Clients holding the full new text rather than an edit may use Update, which
computes the smallest replacement with DiffWords.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package document

import (
	"errors"
	"fmt"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/cst"
	"github.com/npillmayer/inclr/lr/incr"
	"github.com/npillmayer/inclr/lr/lr1"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inclr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("inclr.lr")
}

// ErrRange is returned for edits outside of the document's words.
var ErrRange = errors.New("edit range out of bounds")

// Document is a sequence of words and its parse tree. Documents are not safe
// for concurrent use.
type Document struct {
	tables *lr.Tables
	mapper inclr.TerminalMapper
	trace  bool
	words  []inclr.Word
	tree   *cst.Tree
}

// Option configures a document.
type Option func(*Document)

// Trace switches on step tracing of the parsers used by the document.
func Trace(b bool) Option {
	return func(d *Document) {
		d.trace = b
	}
}

// New creates an empty document for a language.
func New(tables *lr.Tables, mapper inclr.TerminalMapper, opts ...Option) *Document {
	d := &Document{
		tables: tables,
		mapper: mapper,
		tree:   cst.NewTree(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Outcome describes the effect of an edit.
type Outcome struct {
	Changes        []cst.Change // changes applied to the tree, nil if the tree has been rebuilt
	Incremental    bool         // false if the document fell back to a full parse
	ProcessedWords int          // words and old terminals consumed by the incremental parser
}

// Load replaces the content of d with words. If words do not parse, d is
// left unchanged and the syntax error is returned.
func (d *Document) Load(words []inclr.Word) error {
	tree, err := lr1.NewParser(d.tables, d.mapper, lr1.Trace(d.trace)).Parse(words)
	if err != nil {
		return err
	}
	d.tree = tree
	d.words = append([]inclr.Word(nil), words...)
	return nil
}

// Replace replaces length words, starting at word index offset, by words.
func (d *Document) Replace(offset, length int, words []inclr.Word) (Outcome, error) {
	if offset < 0 || length < 0 || offset+length > len(d.words) {
		return Outcome{}, fmt.Errorf("%w: %d+%d of %d words", ErrRange, offset, length, len(d.words))
	}
	if length == 0 && len(words) == 0 {
		return Outcome{Incremental: true}, nil
	}
	edited := make([]inclr.Word, 0, len(d.words)-length+len(words))
	edited = append(edited, d.words[:offset]...)
	edited = append(edited, words...)
	edited = append(edited, d.words[offset+length:]...)
	edit, err := d.edit(offset, length, words)
	if err == nil {
		result := incr.NewParser(d.tables, d.mapper, incr.Trace(d.trace)).Parse(d.tree, edit)
		if result.Status == incr.Accept {
			if err = d.commit(result.Changes, edited); err == nil {
				tracer().Debugf("document: replaced %d words at %d, %d changes", length, offset, len(result.Changes))
				return Outcome{
					Changes:        result.Changes,
					Incremental:    true,
					ProcessedWords: result.ProcessedWords,
				}, nil
			}
		} else if result.Err != nil {
			err = result.Err
		} else if len(result.Diagnostics) > 0 {
			tracer().Debugf("document: incremental parse failed: %s", result.Diagnostics[0].Message)
		}
	}
	if err != nil {
		tracer().Errorf("document: incremental parse not possible: %v", err)
	}
	if err = d.Load(edited); err != nil {
		return Outcome{}, err
	}
	return Outcome{}, nil
}

// commit applies changes to the tree and takes words as the new content of d.
// Apply may fail after some of the changes have been carried out. In this case
// the tree is re-built from the current words and d is left unchanged.
func (d *Document) commit(changes []cst.Change, words []inclr.Word) error {
	err := d.tree.Apply(changes)
	if err == nil {
		d.words = words
		return nil
	}
	tracer().Errorf("document: %v", err)
	if len(d.words) == 0 {
		d.tree = cst.NewTree()
	} else if lerr := d.Load(d.words); lerr != nil {
		return fmt.Errorf("%v, and restoring the tree failed: %w", err, lerr)
	}
	return err
}

// edit translates a word range into an edit of the tree. Terminals of the
// tree correspond one to one to the words of d.
func (d *Document) edit(offset, length int, words []inclr.Word) (incr.Edit, error) {
	e := incr.Edit{Words: words}
	if d.tree.Empty() {
		return e, nil
	}
	terminals := d.tree.Terminals()
	if len(terminals) != len(d.words) {
		return e, fmt.Errorf("document has %d words, but tree has %d terminals", len(d.words), len(terminals))
	}
	if offset < len(terminals) {
		e.Start = terminals[offset]
	}
	if offset+length < len(terminals) {
		e.After = terminals[offset+length]
	}
	return e, nil
}

// Update replaces the words of d by words, editing only the range which differs.
func (d *Document) Update(words []inclr.Word) (Outcome, error) {
	offset, length, inserted := DiffWords(d.words, words)
	return d.Replace(offset, length, inserted)
}

// Words returns a copy of the words of d.
func (d *Document) Words() []inclr.Word {
	return append([]inclr.Word(nil), d.words...)
}

// Tree returns the parse tree of d. The tree is empty as long as nothing has
// been loaded.
func (d *Document) Tree() *cst.Tree {
	return d.tree
}

// Compact drops nodes of previous versions of the tree.
func (d *Document) Compact() {
	n := d.tree.Len()
	d.tree.Compact()
	tracer().Debugf("document: compacted tree from %d to %d nodes", n, d.tree.Len())
}

// DiffWords computes a replacement turning old into new: the length words
// starting at offset in old are to be replaced by words. Words are compared by
// value and type, ignoring locations.
func DiffWords(old, new []inclr.Word) (offset, length int, words []inclr.Word) {
	for offset < len(old) && offset < len(new) && same(old[offset], new[offset]) {
		offset++
	}
	suffix := 0
	for suffix < len(old)-offset && suffix < len(new)-offset &&
		same(old[len(old)-1-suffix], new[len(new)-1-suffix]) {
		suffix++
	}
	length = len(old) - offset - suffix
	words = new[offset : len(new)-suffix]
	return
}

func same(a, b inclr.Word) bool {
	return a.Value == b.Value && a.Type == b.Type
}
