package parse

import "unicode/utf8"

// Lexer turns raw source bytes into the token vocabulary the
// combinators consume. It is deliberately shallow: it recognizes
// identifiers, literals, comments, and the delimiter/punctuation set,
// and emits everything else as single Unknown tokens. Structure
// recovery is the grammar's job, not the lexer's.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize materializes the whole token stream for src at once.
func Tokenize(src []byte, file string) []Token {
	l := NewLexer(src, file)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekN(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.input) {
				if l.peek() == '*' && l.peekN(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token, or ok=false at end of input.
func (l *Lexer) Next() (Token, bool) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.input) {
		return Token{}, false
	}

	start := l.Position()
	ch := l.peek()

	switch {
	case isIdentStart(ch):
		return l.finish(start, TokenIdent, l.readIdent()), true
	case ch >= '0' && ch <= '9':
		return l.finish(start, TokenNumber, l.readNumber()), true
	case ch == '"' || ch == '\'':
		return l.finish(start, TokenString, l.readString(ch)), true
	}

	if kind, ok := punctKinds[ch]; ok {
		l.advance()
		return l.finish(start, kind, string(ch)), true
	}

	// Operator characters and anything else come through as one
	// Unknown token apiece.
	l.advance()
	return l.finish(start, TokenUnknown, string(ch)), true
}

var punctKinds = map[byte]TokenKind{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
	'<': TokenLAngle,
	'>': TokenRAngle,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	';': TokenSemicolon,
	'@': TokenAt,
}

func (l *Lexer) finish(start Position, kind TokenKind, text string) Token {
	return Token{
		Kind: kind,
		Text: text,
		Span: Span{Start: start, End: l.Position()},
	}
}

func (l *Lexer) readIdent() string {
	begin := l.pos
	for l.pos < len(l.input) && isIdentPart(l.peek()) {
		l.advance()
	}
	return string(l.input[begin:l.pos])
}

func (l *Lexer) readNumber() string {
	begin := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == 'x' || ch == '_' ||
			(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') {
			l.advance()
			continue
		}
		break
	}
	return string(l.input[begin:l.pos])
}

func (l *Lexer) readString(quote byte) string {
	begin := l.pos
	l.advance()
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\\' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
		if ch == quote {
			break
		}
	}
	return string(l.input[begin:l.pos])
}

// Non-ASCII bytes are accepted as identifier parts wholesale; the
// grammar never inspects identifier spelling beyond equality.
func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		ch >= utf8.RuneSelf
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
