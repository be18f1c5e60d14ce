package parse

import "testing"

func toks(src string) []Token {
	return Tokenize([]byte(src), "test.m")
}

func kinds(ts []Token) []TokenKind {
	out := make([]TokenKind, len(ts))
	for i, t := range ts {
		out[i] = t.Kind
	}
	return out
}

func texts(ts []Token) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}

func TestTerm(t *testing.T) {
	ts := toks("( foo")

	tok, rest, err := Term(TokenLParen)(ts)
	if err != nil {
		t.Fatalf("Term(LParen) failed: %v", err)
	}
	if tok.Text != "(" || len(rest) != 1 {
		t.Errorf("got %q with %d remaining, want %q with 1", tok.Text, len(rest), "(")
	}

	_, rest, err = Term(TokenIdent)(ts)
	if err == nil {
		t.Fatal("Term(Ident) on '(' should fail")
	}
	if err.Kind != ErrMissMatch {
		t.Errorf("error kind = %v, want ErrMissMatch", err.Kind)
	}
	if len(rest) != len(ts) {
		t.Error("failed Term must not consume")
	}
}

func TestEmptyInputSafety(t *testing.T) {
	var empty []Token

	if _, _, err := Any()(empty); err == nil {
		t.Error("Any on empty stream must fail")
	} else if err.Message != "tokens empty" {
		t.Errorf("Any error = %q, want %q", err.Message, "tokens empty")
	}

	if _, _, err := Term(TokenIdent)(empty); err == nil {
		t.Error("Term on empty stream must fail")
	}

	got, rest, err := Many(Term(TokenIdent))(empty)
	if err != nil {
		t.Errorf("Many on empty stream must succeed, got %v", err)
	}
	if len(got) != 0 || len(rest) != 0 {
		t.Errorf("Many on empty stream = %d values, %d remaining", len(got), len(rest))
	}
}

func TestBacktrackingPurity(t *testing.T) {
	ts := toks("a b c d")

	// First alternative consumes three tokens, then fails.
	threeIdentsThenComma := KeepRight(
		KeepRight(Term(TokenIdent), KeepRight(Term(TokenIdent), Term(TokenIdent))),
		Term(TokenComma),
	)
	allIdents := Many(Term(TokenIdent))

	got, rest, err := Or(Map(threeIdentsThenComma, func(Token) []Token { return nil }), allIdents)(ts)
	if err != nil {
		t.Fatalf("alternation failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("second alternative saw %d tokens, want all 4 originals", len(got))
	}
	if len(rest) != 0 {
		t.Errorf("%d tokens left unconsumed", len(rest))
	}
}

func TestAlternationDeterminism(t *testing.T) {
	ts := toks("x")

	a := FailWith[string](missMatchf("nope"))
	b := Map(Term(TokenIdent), func(tok Token) string { return "b:" + tok.Text })

	got, _, err := Choice(a, b)(ts)
	if err != nil || got != "b:x" {
		t.Errorf("Choice(a, b) = %q, %v; want b's result", got, err)
	}

	// Both could match: order must decide.
	c := Map(Term(TokenIdent), func(tok Token) string { return "c:" + tok.Text })
	got, _, err = Choice(c, b)(ts)
	if err != nil || got != "c:x" {
		t.Errorf("Choice(c, b) = %q, %v; want c's result", got, err)
	}
	got, _, err = Choice(b, c)(ts)
	if err != nil || got != "b:x" {
		t.Errorf("Choice(b, c) = %q, %v; want b's result", got, err)
	}
}

func TestNot(t *testing.T) {
	ts := toks("( x")

	_, rest, err := Not(Term(TokenIdent))(ts)
	if err != nil {
		t.Errorf("Not(Ident) on '(' should succeed, got %v", err)
	}
	if len(rest) != len(ts) {
		t.Error("Not must not consume on success")
	}

	_, rest, err = Not(Term(TokenLParen))(ts)
	if err == nil {
		t.Error("Not(LParen) on '(' should fail")
	}
	if len(rest) != len(ts) {
		t.Error("Not must not consume on failure")
	}
}

func TestLookAhead(t *testing.T) {
	ts := toks("foo (")

	tok, rest, err := LookAhead(Term(TokenIdent))(ts)
	if err != nil {
		t.Fatalf("LookAhead failed: %v", err)
	}
	if tok.Text != "foo" {
		t.Errorf("value = %q, want %q", tok.Text, "foo")
	}
	if len(rest) != len(ts) {
		t.Error("LookAhead must rewind after success")
	}

	_, rest, err = LookAhead(Term(TokenComma))(ts)
	if err == nil {
		t.Fatal("LookAhead must propagate the inner failure")
	}
	if err.Kind != ErrMissMatch {
		t.Errorf("error kind = %v, want ErrMissMatch", err.Kind)
	}
	if len(rest) != len(ts) {
		t.Error("failed LookAhead must not consume")
	}
}

func TestTrying(t *testing.T) {
	ts := toks("foo bar")

	v, rest, err := Trying(Term(TokenIdent))(ts)
	if err != nil || v == nil || v.Text != "foo" {
		t.Errorf("Trying success = %v, %v", v, err)
	}
	if len(rest) != 1 {
		t.Error("Trying must consume on success")
	}

	v, rest, err = Trying(Term(TokenComma))(ts)
	if err != nil {
		t.Errorf("Trying must never fail, got %v", err)
	}
	if v != nil {
		t.Error("Trying failure must yield absent value")
	}
	if len(rest) != len(ts) {
		t.Error("Trying must rewind on failure")
	}
}

func TestManyCollectsUntilFailure(t *testing.T) {
	ts := toks("a b c ,")

	got, rest, err := Many(Term(TokenIdent))(ts)
	if err != nil {
		t.Fatalf("Many failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("collected %d, want 3", len(got))
	}
	if len(rest) != 1 || rest[0].Kind != TokenComma {
		t.Errorf("remainder = %v, want the comma", texts(rest))
	}
}

func TestIdempotentRerun(t *testing.T) {
	ts := toks("a . b ( c )")
	p := Bind(Term(TokenIdent), func(Token) Parser[Token] {
		return KeepRight(Term(TokenDot), Term(TokenIdent))
	})

	first, rest1, err1 := p(ts)
	second, rest2, err2 := p(ts)
	if err1 != nil || err2 != nil {
		t.Fatalf("runs failed: %v, %v", err1, err2)
	}
	if first.Text != second.Text || len(rest1) != len(rest2) {
		t.Error("running the same parser twice on the same stream must give identical results")
	}
}

func TestLazyRecursion(t *testing.T) {
	// nested ::= '(' nested ')' | identifier
	var nested func() Parser[string]
	nested = func() Parser[string] {
		return Or(
			Map(
				KeepLeft(KeepRight(Term(TokenLParen), Lazy(nested)), Term(TokenRParen)),
				func(s string) string { return "(" + s + ")" },
			),
			Map(Term(TokenIdent), func(tok Token) string { return tok.Text }),
		)
	}

	got, rest, err := Lazy(nested)(toks("( ( x ) )"))
	if err != nil {
		t.Fatalf("recursive parse failed: %v", err)
	}
	if got != "((x))" {
		t.Errorf("got %q, want %q", got, "((x))")
	}
	if len(rest) != 0 {
		t.Errorf("%d tokens left", len(rest))
	}
}

func TestRun(t *testing.T) {
	v, ok := Run(nil, Term(TokenIdent), toks("hello world"))
	if !ok || v.Text != "hello" {
		t.Errorf("Run = %q, %v", v.Text, ok)
	}

	_, ok = Run(nil, Term(TokenComma), toks("hello"))
	if ok {
		t.Error("Run must report failure as ok=false")
	}
}
