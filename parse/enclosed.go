package parse

// Structural matchers: balanced-delimiter capture and "take until"
// scanning that is aware of nested groups. Expressions in the source
// languages routinely carry a stop token (a comma, a closing paren)
// inside brackets or generics; a naive until-scan would cut the capture
// short at the nested occurrence.

// TokensUntil collects tokens until pred holds for the next token. The
// stopping token is not consumed. Never fails; consumes to end of input
// when pred never holds.
func TokensUntil(pred func(Token) bool) Parser[[]Token] {
	return func(ts []Token) ([]Token, []Token, *Error) {
		for i := range ts {
			if pred(ts[i]) {
				return ts[:i:i], ts[i:], nil
			}
		}
		return ts, nil, nil
	}
}

// TokensUntilParser collects tokens until stop would succeed at the
// current position, checked by lookahead so the terminator stays
// unconsumed. Never fails.
func TokensUntilParser[T any](stop Parser[T]) Parser[[]Token] {
	return func(ts []Token) ([]Token, []Token, *Error) {
		var out []Token
		rest := ts
		for len(rest) > 0 {
			if _, _, err := stop(rest); err == nil {
				break
			}
			out = append(out, rest[0])
			rest = rest[1:]
		}
		return out, rest, nil
	}
}

// Enclosed matches a balanced region from an open token to its matching
// close token, handling nested regions of the same kind recursively.
// Both delimiters are included in the result. An unterminated region is
// a hard failure, not a soft one.
func Enclosed(left, right TokenKind) Parser[[]Token] {
	return func(ts []Token) ([]Token, []Token, *Error) {
		first, rest, err := Term(left)(ts)
		if err != nil {
			return nil, ts, err
		}
		out := []Token{first}
		for {
			if len(rest) == 0 {
				return nil, ts, customf("unterminated %s region", left)
			}
			switch rest[0].Kind {
			case right:
				out = append(out, rest[0])
				return out, rest[1:], nil
			case left:
				inner, next, err := Enclosed(left, right)(rest)
				if err != nil {
					return nil, ts, err
				}
				out = append(out, inner...)
				rest = next
			default:
				out = append(out, rest[0])
				rest = rest[1:]
			}
		}
	}
}

// Inside matches the same balanced region as Enclosed but strips the
// delimiter tokens from the result.
func Inside(left, right TokenKind) Parser[[]Token] {
	return Map(Enclosed(left, right), func(toks []Token) []Token {
		return toks[1 : len(toks)-1]
	})
}

// AnyEnclosed matches whichever of the four supported delimiter pairs
// starts here, in priority order: brace, square bracket, parenthesis,
// angle bracket.
func AnyEnclosed() Parser[[]Token] {
	return Choice(
		Enclosed(TokenLBrace, TokenRBrace),
		Enclosed(TokenLBracket, TokenRBracket),
		Enclosed(TokenLParen, TokenRParen),
		Enclosed(TokenLAngle, TokenRAngle),
	)
}

// OpenTokensUntil captures an expression: as long as stop does not
// match here (by lookahead), it consumes a whole balanced region when
// one starts at the current position, otherwise a single token. A
// terminator nested inside brackets therefore never ends the capture.
// Never fails; yields an empty list when stop matches immediately.
func OpenTokensUntil[T any](stop Parser[T]) Parser[[]Token] {
	enclosed := AnyEnclosed()
	return func(ts []Token) ([]Token, []Token, *Error) {
		var out []Token
		rest := ts
		for len(rest) > 0 {
			if _, _, err := stop(rest); err == nil {
				break
			}
			if group, next, err := enclosed(rest); err == nil {
				out = append(out, group...)
				rest = next
				continue
			}
			out = append(out, rest[0])
			rest = rest[1:]
		}
		return out, rest, nil
	}
}
