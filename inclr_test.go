package inclr

import "testing"

func TestWordTypes(t *testing.T) {
	for wt := Alphanumeric; wt <= Invalid; wt++ {
		p, err := ParseWordType(wt.String())
		if err != nil || p != wt {
			t.Errorf("Expected %s to parse to itself, is %v/%v", wt, p, err)
		}
	}
	if wt, err := ParseWordType("number"); err != nil || wt != Number {
		t.Errorf("Expected case-insensitive match for Number, is %v", wt)
	}
	if _, err := ParseWordType("Numeral"); err == nil {
		t.Errorf("Expected unknown word type to be an error")
	}
	if s := WordType(42).String(); s != "WordType(42)" {
		t.Errorf("Expected WordType(42), is %s", s)
	}
}

func TestWordEnd(t *testing.T) {
	w := Word{Value: "3.1416", Type: Number, Loc: SourceLocation{Line: 4, Column: 12}}
	if end := w.End(); end != (SourceLocation{Line: 4, Column: 18}) {
		t.Errorf("Expected word to end at 4:18, is %s", end)
	}
}

func TestTerminalMappers(t *testing.T) {
	m := map[WordType]string{Number: "number", String: "string"}
	mapper := TypedTerminals(m)
	m[Number] = "changed"
	var tests = []struct {
		word     Word
		terminal string
	}{
		{Word{Value: "42", Type: Number}, "number"},
		{Word{Value: `"a"`, Type: String}, "string"},
		{Word{Value: "+", Type: Symbol}, "+"},
		{Word{Value: "if", Type: Alphanumeric}, "if"},
	}
	for _, test := range tests {
		if term := mapper(test.word); term != test.terminal {
			t.Errorf("Expected %v to map to %q, is %q", test.word, test.terminal, term)
		}
	}
	if term := LiteralTerminals(Word{Value: "42", Type: Number}); term != "42" {
		t.Errorf("Expected literal mapping to use the value, is %q", term)
	}
}

func TestWordEndMultiByte(t *testing.T) {
	w := Word{Value: `"größe"`, Type: String, Loc: SourceLocation{Line: 1, Column: 3}}
	if end := w.End(); end != (SourceLocation{Line: 1, Column: 10}) {
		t.Errorf("Expected word to end at 1:10, is %s", end)
	}
}
