// Package parse implements a backtracking parser-combinator engine over
// a token stream. A Parser is a pure function from the remaining tokens
// to a value plus the unconsumed remainder, or a failure value. Failed
// parsers always hand back the caller's original slice, so alternation
// can retry from the same position without any cleanup.
package parse

import (
	"sync"

	"github.com/tliron/commonlog"
)

// Parser consumes a prefix of ts and returns the parsed value, the
// unconsumed remainder, and nil — or the zero value, the original ts,
// and a failure. Parsers are values: build them once, run them many
// times; running a parser never mutates shared state.
type Parser[T any] func(ts []Token) (T, []Token, *Error)

// Pure succeeds with v and consumes nothing.
func Pure[T any](v T) Parser[T] {
	return func(ts []Token) (T, []Token, *Error) {
		return v, ts, nil
	}
}

// Fail fails with the Unknown error and consumes nothing.
func Fail[T any]() Parser[T] {
	return FailWith[T](&Error{Kind: ErrUnknown})
}

// FailWith fails with err and consumes nothing.
func FailWith[T any](err *Error) Parser[T] {
	return func(ts []Token) (T, []Token, *Error) {
		var zero T
		return zero, ts, err
	}
}

// Term consumes exactly one token of the given kind.
func Term(kind TokenKind) Parser[Token] {
	return func(ts []Token) (Token, []Token, *Error) {
		if len(ts) == 0 {
			return Token{}, ts, missMatchf("expected %s, tokens empty", kind)
		}
		if ts[0].Kind != kind {
			return Token{}, ts, missMatchf("expected %s, got %s %q", kind, ts[0].Kind, ts[0].Text)
		}
		return ts[0], ts[1:], nil
	}
}

// Any consumes the next token whatever its kind; it fails only at end
// of input.
func Any() Parser[Token] {
	return func(ts []Token) (Token, []Token, *Error) {
		if len(ts) == 0 {
			return Token{}, ts, customf("tokens empty")
		}
		return ts[0], ts[1:], nil
	}
}

// Not succeeds without consuming input when p would fail here, and
// fails without consuming when p would succeed. Pure lookahead
// negation: the stream is untouched either way.
func Not[T any](p Parser[T]) Parser[struct{}] {
	return func(ts []Token) (struct{}, []Token, *Error) {
		if _, _, err := p(ts); err != nil {
			return struct{}{}, ts, nil
		}
		return struct{}{}, ts, missMatchf("negated parser matched")
	}
}

// LookAhead runs p and returns its value but rewinds to the pre-match
// position, so the next parser sees the same tokens.
func LookAhead[T any](p Parser[T]) Parser[T] {
	return func(ts []Token) (T, []Token, *Error) {
		v, _, err := p(ts)
		return v, ts, err
	}
}

// Trying converts a hard failure into a soft one: it always succeeds,
// yielding p's value on success or nil after rewinding to the pre-match
// position on failure.
func Trying[T any](p Parser[T]) Parser[*T] {
	return func(ts []Token) (*T, []Token, *Error) {
		v, rest, err := p(ts)
		if err != nil {
			return nil, ts, nil
		}
		return &v, rest, nil
	}
}

// Map transforms a successful value without touching the stream.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(ts []Token) (B, []Token, *Error) {
		v, rest, err := p(ts)
		if err != nil {
			var zero B
			return zero, ts, err
		}
		return f(v), rest, nil
	}
}

// Bind sequences p with a parser derived from its value. The second
// step only runs if the first succeeded.
func Bind[A, B any](p Parser[A], f func(A) Parser[B]) Parser[B] {
	return func(ts []Token) (B, []Token, *Error) {
		v, rest, err := p(ts)
		if err != nil {
			var zero B
			return zero, ts, err
		}
		w, rest2, err := f(v)(rest)
		if err != nil {
			var zero B
			return zero, ts, err
		}
		return w, rest2, nil
	}
}

// KeepLeft runs both parsers in order and keeps the first value.
func KeepLeft[A, B any](pa Parser[A], pb Parser[B]) Parser[A] {
	return Bind(pa, func(a A) Parser[A] {
		return Map(pb, func(B) A { return a })
	})
}

// KeepRight runs both parsers in order and keeps the second value.
func KeepRight[A, B any](pa Parser[A], pb Parser[B]) Parser[B] {
	return Bind(pa, func(A) Parser[B] { return pb })
}

// Or tries a; if it fails, retries b from the same original position.
func Or[T any](a, b Parser[T]) Parser[T] {
	return func(ts []Token) (T, []Token, *Error) {
		v, rest, err := a(ts)
		if err == nil {
			return v, rest, nil
		}
		return b(ts)
	}
}

// Choice tries each parser in priority order from the original
// position; the first success wins. Fails with the last alternative's
// error when every candidate fails.
func Choice[T any](ps ...Parser[T]) Parser[T] {
	return func(ts []Token) (T, []Token, *Error) {
		var last *Error
		for _, p := range ps {
			v, rest, err := p(ts)
			if err == nil {
				return v, rest, nil
			}
			last = err
		}
		var zero T
		if last == nil {
			last = customf("no alternatives given")
		}
		return zero, ts, last
	}
}

// Many applies p zero or more times, collecting values until it fails.
// The failing attempt consumes nothing, so the loop ends at the
// position of the last success. Many itself never fails. A parser that
// succeeds without consuming is collected once and the loop stops,
// since repeating it could never make progress.
func Many[T any](p Parser[T]) Parser[[]T] {
	return func(ts []Token) ([]T, []Token, *Error) {
		var out []T
		rest := ts
		for {
			v, next, err := p(rest)
			if err != nil {
				return out, rest, nil
			}
			out = append(out, v)
			if len(next) == len(rest) {
				return out, next, nil
			}
			rest = next
		}
	}
}

// Lazy defers construction of a parser until it first runs, so a
// grammar rule can reference itself or a rule defined later without
// recursing forever at construction time. The thunk is resolved at
// most once, even when the first runs happen on concurrent goroutines.
func Lazy[T any](thunk func() Parser[T]) Parser[T] {
	var (
		once sync.Once
		p    Parser[T]
	)
	return func(ts []Token) (T, []Token, *Error) {
		once.Do(func() { p = thunk() })
		return p(ts)
	}
}

// Run executes p on ts and discards the remainder. Failures are
// advisory: they are logged at debug level on the given logger and
// surface only as ok=false.
func Run[T any](log commonlog.Logger, p Parser[T], ts []Token) (T, bool) {
	v, _, err := p(ts)
	if err != nil {
		if log != nil {
			log.Debugf("parse failed: %s", err.Error())
		}
		var zero T
		return zero, false
	}
	return v, true
}
