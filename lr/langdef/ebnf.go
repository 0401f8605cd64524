package langdef

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/inclr/lr"
	"golang.org/x/exp/ebnf"
)

// ErrEBNFRange is returned for EBNF character ranges, which have no
// counterpart in a grammar over words.
var ErrEBNFRange = errors.New("EBNF ranges are not supported")

// FromEBNF converts EBNF productions into grammar description lines, suitable
// for lr.NewGrammar. Tokens become terminals, production names non-terminals.
// The first rule is an augmented start rule S' -> S for start production S.
//
// Options, repetitions and parenthesized alternatives are replaced by fresh
// non-terminals, named after the production they occur in:
//
//     A = x [ y ] .        A -> x A_opt1          A_opt1 -> y |
//     A = x { y } .        A -> x A_rep1          A_rep1 -> A_rep1 y |
//     A = ( x | y ) z .    A -> A_grp1 z          A_grp1 -> x | y
//
func FromEBNF(name string, r io.Reader, start string) ([]string, error) {
	g, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, err
	}
	if start == "" {
		return nil, fmt.Errorf("no start production given for EBNF grammar %s", name)
	}
	if err = ebnf.Verify(g, start); err != nil {
		return nil, err
	}
	c := &converter{
		g:       g,
		counter: make(map[string]int),
		queued:  map[string]bool{start: true},
		queue:   []string{start},
	}
	c.lines = append(c.lines, fmt.Sprintf("%s' %s %s", start, lr.Arrow, start))
	for len(c.queue) > 0 {
		prod := c.queue[0]
		c.queue = c.queue[1:]
		if err = c.production(prod); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("EBNF %s converted to %d lines", name, len(c.lines))
	return c.lines, nil
}

type converter struct {
	g       ebnf.Grammar
	lines   []string
	counter map[string]int // fresh names per production
	queued  map[string]bool
	queue   []string // productions to convert, in order of reachability
	pending []string // lines of fresh non-terminals of the current production
}

func (c *converter) production(name string) error {
	p := c.g[name]
	c.pending = nil
	alts, err := c.alternatives(name, p.Expr)
	if err != nil {
		return err
	}
	c.lines = append(c.lines, line(name, alts))
	c.lines = append(c.lines, c.pending...)
	return nil
}

func (c *converter) fresh(prod, kind string, alts [][]string) string {
	c.counter[prod]++
	nt := fmt.Sprintf("%s_%s%d", prod, kind, c.counter[prod])
	c.pending = append(c.pending, line(nt, alts))
	return nt
}

func (c *converter) alternatives(prod string, x ebnf.Expression) ([][]string, error) {
	if alt, ok := x.(ebnf.Alternative); ok {
		var alts [][]string
		for _, a := range alt {
			seq, err := c.sequence(prod, a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, seq)
		}
		return alts, nil
	}
	seq, err := c.sequence(prod, x)
	if err != nil {
		return nil, err
	}
	return [][]string{seq}, nil
}

func (c *converter) sequence(prod string, x ebnf.Expression) ([]string, error) {
	seq, ok := x.(ebnf.Sequence)
	if !ok {
		return c.symbols(prod, x)
	}
	var syms []string
	for _, s := range seq {
		s, err := c.symbols(prod, s)
		if err != nil {
			return nil, err
		}
		syms = append(syms, s...)
	}
	return syms, nil
}

func (c *converter) symbols(prod string, x ebnf.Expression) ([]string, error) {
	switch x := x.(type) {
	case nil:
		return nil, nil
	case *ebnf.Name:
		if !c.queued[x.String] {
			c.queued[x.String] = true
			c.queue = append(c.queue, x.String)
		}
		return []string{x.String}, nil
	case *ebnf.Token:
		return terminal(x)
	case *ebnf.Group:
		if alt, ok := x.Body.(ebnf.Alternative); ok && len(alt) > 1 {
			alts, err := c.alternatives(prod, x.Body)
			if err != nil {
				return nil, err
			}
			return []string{c.fresh(prod, "grp", alts)}, nil
		}
		return c.sequence(prod, x.Body)
	case *ebnf.Option:
		alts, err := c.alternatives(prod, x.Body)
		if err != nil {
			return nil, err
		}
		return []string{c.fresh(prod, "opt", append(alts, nil))}, nil
	case *ebnf.Repetition:
		alts, err := c.alternatives(prod, x.Body)
		if err != nil {
			return nil, err
		}
		c.counter[prod]++
		nt := fmt.Sprintf("%s_rep%d", prod, c.counter[prod])
		rec := make([][]string, 0, len(alts)+1)
		for _, a := range alts {
			rec = append(rec, append([]string{nt}, a...))
		}
		c.pending = append(c.pending, line(nt, append(rec, nil)))
		return []string{nt}, nil
	case *ebnf.Range:
		return nil, fmt.Errorf("%s: %w", x.Pos(), ErrEBNFRange)
	}
	return nil, fmt.Errorf("%s: unexpected EBNF expression %T", x.Pos(), x)
}

func terminal(t *ebnf.Token) ([]string, error) {
	switch {
	case t.String == lr.Bar:
		return []string{lr.SingleOr}, nil
	case t.String == "" || strings.ContainsAny(t.String, " \t\r\n"):
		return nil, fmt.Errorf("%s: token %q cannot be a terminal", t.Pos(), t.String)
	case t.String == lr.Arrow:
		return nil, fmt.Errorf("%s: token %q is reserved", t.Pos(), t.String)
	}
	return []string{t.String}, nil
}

// line formats the rules for a non-terminal as a description line.
func line(lhs string, alts [][]string) string {
	s := make([]string, len(alts))
	for i, a := range alts {
		s[i] = strings.Join(a, " ")
	}
	return strings.TrimRight(fmt.Sprintf("%s %s %s", lhs, lr.Arrow, strings.Join(s, " "+lr.Bar+" ")), " ")
}
