package lang

import (
	"context"
	"log/slog"
	"slices"
)

// Stack holds tokens for the parser, which pops from the tail.
type Stack struct {
	toks []Token
}

// NewStack returns a stack that pops toks in source order.
// It reverses toks in place.
func NewStack(toks []Token) *Stack {
	slices.Reverse(toks)

	return &Stack{toks: toks}
}

// Len returns the number of tokens remaining.
func (s *Stack) Len() int { return len(s.toks) }

// Pop removes and returns the next token.
func (s *Stack) Pop() (Token, bool) {
	if len(s.toks) == 0 {
		return Token{}, false
	}

	t := s.toks[len(s.toks)-1]
	s.toks = s.toks[:len(s.toks)-1]

	return t, true
}

// Push returns t to the stack so that it is popped next.
func (s *Stack) Push(t Token) { s.toks = append(s.toks, t) }

// Parse consumes one parenthesized list from stack and returns it.
//
// The first token popped must open a list. Nested lists become nested
// [KindList] nodes. Tokens after the closing parenthesis are left on the
// stack. Invalid tokens are skipped, or rejected with [ErrInvalidLexeme]
// when [WithStrict] is given.
func Parse(ctx context.Context, stack *Stack, opts ...Option) (Expr, error) {
	p := parser{options: makeOptions(opts...), stack: stack}

	expr, err := p.list(ctx, 0)
	if err != nil {
		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return Expr{}, err
	}

	return expr, nil
}

// ParseString lexes and parses source as a complete program: exactly one
// list, with nothing but whitespace or skipped input after it.
func ParseString(ctx context.Context, source string, opts ...Option) (Expr, error) {
	o := makeOptions(opts...)

	toks := Lex(source)

	o.logger.TraceContext(ctx, "lexed",
		slog.Int("source_bytes", len(source)),
		slog.Int("tokens", len(toks)),
	)

	p := parser{options: o, stack: NewStack(toks)}

	expr, err := p.list(ctx, 0)
	if err != nil {
		return Expr{}, err
	}

	for {
		t, ok := p.next(ctx)
		if !ok {
			break
		}

		if t.Kind == TokenInvalid {
			return Expr{}, p.invalid(t)
		}

		return Expr{}, ErrTrailingTokens.
			Detail("found %s at offset %d", t, t.Pos).
			With(slog.Int("offset", t.Pos))
	}

	o.logger.TraceContext(ctx, "parsed", slog.Int("items", len(expr.Items)))

	return expr, nil
}

type parser struct {
	options

	stack *Stack
}

// next pops the next valid token. In lenient mode invalid tokens are
// dropped; in strict mode they are returned to the caller.
func (p *parser) next(ctx context.Context) (Token, bool) {
	for {
		t, ok := p.stack.Pop()
		if !ok {
			return Token{}, false
		}

		if t.Kind != TokenInvalid || p.strict {
			return t, true
		}

		p.logger.DebugContext(ctx, "skip unrecognized input",
			slog.String("text", t.Text),
			slog.Int("offset", t.Pos),
		)
	}
}

func (p *parser) invalid(t Token) error {
	return ErrInvalidLexeme.
		Detail("%s at offset %d", t, t.Pos).
		With(slog.Int("offset", t.Pos))
}

func (p *parser) list(ctx context.Context, depth int) (Expr, error) {
	if depth >= p.maxDepth {
		return Expr{}, ErrMaxDepthExceeded.
			Detail("limit %d", p.maxDepth).
			With(slog.Int("max_depth", p.maxDepth))
	}

	t, ok := p.next(ctx)
	if !ok {
		return Expr{}, ErrInsufficientTokens.Detail("empty input")
	}

	if t.Kind != TokenOpen {
		if t.Kind == TokenInvalid {
			return Expr{}, p.invalid(t)
		}

		return Expr{}, ErrExpectedOpen.
			Detail("found %s at offset %d", t, t.Pos).
			With(slog.Int("offset", t.Pos))
	}

	open := t.Pos
	items := []Expr{}

	for {
		if err := ctx.Err(); err != nil {
			return Expr{}, err
		}

		t, ok := p.next(ctx)
		if !ok {
			return Expr{}, ErrInsufficientTokens.
				Detail("list opened at offset %d is not closed", open).
				With(slog.Int("offset", open))
		}

		switch t.Kind {
		case TokenClose:
			return List(items...), nil

		case TokenOpen:
			p.stack.Push(t)

			sub, err := p.list(ctx, depth+1)
			if err != nil {
				return Expr{}, err
			}

			items = append(items, sub)

		case TokenInvalid:
			return Expr{}, p.invalid(t)

		default:
			leaf, _ := t.Expr()
			items = append(items, leaf)
		}
	}
}
