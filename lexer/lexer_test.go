package lexer

import (
	"errors"
	"testing"

	"github.com/npillmayer/jss"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func significant(t *testing.T, src string) []jss.Token {
	tz, err := New(src)
	if err != nil {
		t.Fatal(err)
	}
	var toks []jss.Token
	for tok := tz.Next(); tok.Kind != jss.TokEOF; tok = tz.Next() {
		toks = append(toks, tok)
	}
	return toks
}

func TestSimpleStatement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "var x = 1.5;")
	kinds := []jss.TokType{jss.TokKeyword, jss.TokName, jss.TokPunct, jss.TokNumber, jss.TokPunct}
	if len(toks) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d: %v", len(kinds), len(toks), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token #%d: expected %s, got %s", i, k, toks[i])
		}
	}
}

func TestWhitespaceTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks, err := Tokens("a  \tb\n")
	if err != nil {
		t.Fatal(err)
	}
	kinds := []jss.TokType{jss.TokName, jss.TokSpace, jss.TokTab, jss.TokName, jss.TokNewline}
	if len(toks) != len(kinds) {
		t.Fatalf("expected %d raw tokens, got %v", len(kinds), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("raw token #%d: expected %s, got %s", i, k, toks[i])
		}
	}
}

func TestPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "a\n  bc(\n\nd)")
	want := []string{"1:1", "2:3", "2:5", "4:1", "4:2"}
	for i, pos := range want {
		if toks[i].Pos() != pos {
			t.Errorf("expected %s at %s, is at %s", toks[i].Content, pos, toks[i].Pos())
		}
	}
}

func TestComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "x /* c\n c */ y // z\nw \"//no comment\"")
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %v", toks)
	}
	if toks[1].Content != "y" || toks[1].Line != 2 {
		t.Errorf("expected y on line 2, got %s", toks[1])
	}
	if toks[2].Content != "w" || toks[2].Line != 3 {
		t.Errorf("expected w on line 3, got %s", toks[2])
	}
	if toks[3].Kind != jss.TokString {
		t.Errorf("comment markers inside strings must be kept, got %s", toks[3])
	}
}

func TestKeywordsAndNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "if iffy this each $el _x1 null")
	kinds := []jss.TokType{jss.TokKeyword, jss.TokName, jss.TokName, jss.TokKeyword,
		jss.TokName, jss.TokName, jss.TokKeyword}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token #%d: expected %s, got %s", i, k, toks[i])
		}
	}
	if !IsKeyword("while") || IsKeyword("this") {
		t.Errorf("unexpected keyword classification")
	}
}

func TestLongestPunctuation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "a+=b++ ...c>=d")
	want := []string{"a", "+=", "b", "++", "...", "c", ">=", "d"}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), toks)
	}
	for i, w := range want {
		if toks[i].Content != w {
			t.Errorf("token #%d: expected %q, got %s", i, w, toks[i])
		}
	}
}

func TestNumbers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "0x1F 2.5e3 .5 10f 7")
	want := []float64{31, 2500, 0.5, 10, 7}
	if len(toks) != len(want) {
		t.Fatalf("expected %d numbers, got %v", len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != jss.TokNumber {
			t.Errorf("expected number, got %s", toks[i])
			continue
		}
		n, err := ParseNumber(toks[i].Content)
		if err != nil || n != w {
			t.Errorf("expected %s to be %g, got %g (%v)", toks[i].Content, w, n, err)
		}
	}
}

func TestStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, `"a\"b\n" 'it\'s' "unterminated`)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", toks)
	}
	if s, err := Unquote(toks[0].Content); err != nil || s != "a\"b\n" {
		t.Errorf("unexpected unquoting of %s: %q, %v", toks[0], s, err)
	}
	if s, err := Unquote(toks[1].Content); err != nil || s != "it's" {
		t.Errorf("unexpected unquoting of %s: %q, %v", toks[1], s, err)
	}
	if toks[2].Kind != jss.TokInvalid {
		t.Errorf("expected unterminated string to be invalid, got %s", toks[2])
	}
	if _, err := Unquote(toks[2].Content); !errors.Is(err, ErrLex) {
		t.Errorf("expected lexical error for unterminated string, got %v", err)
	}
}

func TestInvalidInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	toks := significant(t, "a # b")
	invalid := false
	for _, tok := range toks {
		if tok.Kind == jss.TokInvalid {
			invalid = true
		}
	}
	if !invalid {
		t.Errorf("expected an invalid token for '#', got %v", toks)
	}
	if last := toks[len(toks)-1]; last.Content != "b" {
		t.Errorf("expected scanning to resume after invalid input, last token is %s", last)
	}
}

func TestPeekAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jss.lexer")
	defer teardown()
	//
	tz, err := New("f(x)")
	if err != nil {
		t.Fatal(err)
	}
	if tz.Peek().Content != "f" || tz.Peek().Content != "f" {
		t.Errorf("peek must not consume")
	}
	tz.Advance()
	if !tz.Next().Is("(") {
		t.Errorf("expected '(' after advance")
	}
	tz.Next()
	tz.Next()
	for i := 0; i < 3; i++ {
		if tok := tz.Next(); tok.Kind != jss.TokEOF {
			t.Errorf("expected EOF to repeat, got %s", tok)
		}
	}
}

func TestStripComments(t *testing.T) {
	src := "a/*x\ny*/b 'c//d' // e"
	if got := StripComments(src); got != "a\nb 'c//d' " {
		t.Errorf("unexpected stripped source %q", got)
	}
}
