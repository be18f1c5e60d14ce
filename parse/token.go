package parse

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

// TokenKind is the closed vocabulary the combinators operate over. The
// grammar only ever inspects kinds; everything the lexer cannot
// classify arrives as TokenUnknown and still flows through untouched.
type TokenKind int

const (
	TokenUnknown TokenKind = iota

	TokenIdent
	TokenNumber
	TokenString

	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenLAngle
	TokenRAngle

	TokenDot
	TokenComma
	TokenColon
	TokenSemicolon
	TokenAt
)

var tokenKindNames = map[TokenKind]string{
	TokenUnknown:   "Unknown",
	TokenIdent:     "Identifier",
	TokenNumber:    "Number",
	TokenString:    "String",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLAngle:    "<",
	TokenRAngle:    ">",
	TokenDot:       ".",
	TokenComma:     ",",
	TokenColon:     ":",
	TokenSemicolon: ";",
	TokenAt:        "@",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is an immutable lexical unit. The parser never mutates tokens;
// all parsing state is a position within the token slice.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}
