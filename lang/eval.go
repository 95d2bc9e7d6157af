package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/sexp/log"
)

// Eval evaluates a parsed expression against scope.
//
// Literals, Void, and Lambda values evaluate to themselves and names
// resolve through scope. A list is dispatched on its head: if, def,
// lambda, an operator, or a name (a call). A list with any other head is
// evaluated element by element, and the non-void results are collected
// into a new list.
//
// Integer division by zero panics, as native integer division does.
// Cancelling ctx aborts evaluation at the next closure application.
func Eval(ctx context.Context, expr Expr, scope *Scope, opts ...Option) (Expr, error) {
	ev := evaluator{options: makeOptions(opts...)}
	ev.trace = ev.logger.Enabled(ctx, log.LevelTrace)

	if scope == nil {
		scope = NewScope()
	}

	return ev.eval(ctx, expr, scope)
}

type evaluator struct {
	options

	trace bool
}

func (ev *evaluator) eval(ctx context.Context, e Expr, s *Scope) (Expr, error) {
	switch e.Kind {
	case KindVoid, KindInteger, KindFloat, KindBool, KindLambda:
		return e, nil

	case KindName:
		v, ok := s.Get(e.Str)
		if !ok {
			return Expr{}, ErrUnboundName.
				Detail("%s", e.Str).
				With(slog.String("name", e.Str))
		}

		return v, nil

	case KindList:
		return ev.list(ctx, e.Items, s)

	default:
		return Expr{}, ErrType.
			Detail("%s %q is only valid at the head of a list", e.Kind, e.String()).
			With(slog.String("kind", e.Kind.String()))
	}
}

func (ev *evaluator) list(ctx context.Context, items []Expr, s *Scope) (Expr, error) {
	if len(items) == 0 {
		return List(), nil
	}

	head := items[0]

	switch head.Kind {
	case KindCondition:
		return ev.condition(ctx, items, s)

	case KindKeyword:
		switch head.Str {
		case KeywordDef:
			return ev.define(ctx, items, s)
		case KeywordLambda:
			return ev.lambda(ctx, items)
		default:
			return Expr{}, ErrType.Detail("unknown keyword %q", head.Str)
		}

	case KindOperator:
		return ev.operator(ctx, head.Op, items[1:], s)

	case KindName:
		return ev.call(ctx, head.Str, items, s)

	default:
		return ev.sequence(ctx, items, s)
	}
}

// sequence evaluates items in order and collects the non-void results.
func (ev *evaluator) sequence(ctx context.Context, items []Expr, s *Scope) (Expr, error) {
	out := make([]Expr, 0, len(items))

	for _, item := range items {
		v, err := ev.eval(ctx, item, s)
		if err != nil {
			return Expr{}, err
		}

		if !v.IsVoid() {
			out = append(out, v)
		}
	}

	return List(out...), nil
}

func (ev *evaluator) condition(ctx context.Context, items []Expr, s *Scope) (Expr, error) {
	if len(items) != 4 {
		return Expr{}, ErrArity.
			Detail("if takes 3 arguments, got %d", len(items)-1).
			With(slog.String("form", KeywordIf))
	}

	c, err := ev.eval(ctx, items[1], s)
	if err != nil {
		return Expr{}, err
	}

	if c.Kind != KindBool {
		return Expr{}, ErrType.
			Detail("if condition must be Bool, got %s", c.Kind).
			With(slog.String("form", KeywordIf))
	}

	if ev.trace {
		ev.logger.TraceContext(ctx, "if", slog.Bool("condition", c.Bool))
	}

	if c.Bool {
		return ev.eval(ctx, items[2], s)
	}

	return ev.eval(ctx, items[3], s)
}

func (ev *evaluator) define(ctx context.Context, items []Expr, s *Scope) (Expr, error) {
	if len(items) != 3 {
		return Expr{}, ErrArity.
			Detail("def takes 2 arguments, got %d", len(items)-1).
			With(slog.String("form", KeywordDef))
	}

	if items[1].Kind != KindName {
		return Expr{}, ErrType.
			Detail("def target must be a Name, got %s", items[1].Kind).
			With(slog.String("form", KeywordDef))
	}

	v, err := ev.eval(ctx, items[2], s)
	if err != nil {
		return Expr{}, err
	}

	if ev.trace {
		ev.logger.TraceContext(ctx, "def",
			slog.String("name", items[1].Str),
			slog.String("kind", v.Kind.String()),
		)
	}

	s.Set(items[1].Str, v)

	return Void(), nil
}

func (ev *evaluator) lambda(_ context.Context, items []Expr) (Expr, error) {
	if len(items) != 3 {
		return Expr{}, ErrArity.
			Detail("lambda takes a parameter list and a body, got %d arguments", len(items)-1).
			With(slog.String("form", KeywordLambda))
	}

	if items[1].Kind != KindList {
		return Expr{}, ErrType.
			Detail("lambda parameters must be a List, got %s", items[1].Kind).
			With(slog.String("form", KeywordLambda))
	}

	params := make([]string, 0, len(items[1].Items))

	for _, p := range items[1].Items {
		if p.Kind != KindName {
			return Expr{}, ErrType.
				Detail("lambda parameter must be a Name, got %s", p.Kind).
				With(slog.String("form", KeywordLambda))
		}

		params = append(params, p.Str)
	}

	if items[2].Kind != KindList {
		return Expr{}, ErrType.
			Detail("lambda body must be a List, got %s", items[2].Kind).
			With(slog.String("form", KeywordLambda))
	}

	return Lambda(params, items[2].Items), nil
}

// call applies the closure bound to name. Arguments are evaluated in the
// caller's scope, and the body runs in a new frame whose parent is the
// caller's scope. Arguments beyond the declared parameters are ignored.
func (ev *evaluator) call(ctx context.Context, name string, items []Expr, s *Scope) (Expr, error) {
	fn, ok := s.Get(name)
	if !ok {
		return Expr{}, ErrUnboundSymbol.
			Detail("%s", name).
			With(slog.String("name", name))
	}

	if fn.Kind != KindLambda {
		return Expr{}, ErrType.
			Detail("%s is %s, not a Lambda", name, fn.Kind).
			With(slog.String("name", name))
	}

	args := items[1:]
	if len(args) < len(fn.Params) {
		return Expr{}, ErrArity.
			Detail("%s takes %d arguments, got %d", name, len(fn.Params), len(args)).
			With(slog.String("name", name))
	}

	if err := ctx.Err(); err != nil {
		return Expr{}, err
	}

	frame := s.Extend()

	for i, param := range fn.Params {
		v, err := ev.eval(ctx, args[i], s)
		if err != nil {
			return Expr{}, err
		}

		frame.Set(param, v)
	}

	if ev.trace {
		ev.logger.TraceContext(ctx, "apply",
			slog.String("name", name),
			slog.Int("params", len(fn.Params)),
		)
	}

	return ev.eval(ctx, List(fn.Items...), frame)
}

func (ev *evaluator) operator(ctx context.Context, op Operator, operands []Expr, s *Scope) (Expr, error) {
	vals := make([]Expr, 0, len(operands))

	for _, operand := range operands {
		v, err := ev.eval(ctx, operand, s)
		if err != nil {
			return Expr{}, err
		}

		if !v.IsVoid() {
			vals = append(vals, v)
		}
	}

	if len(vals) == 0 {
		return Expr{}, ErrArity.
			Detail("%s needs at least one operand", op).
			With(slog.String("operator", op.String()))
	}

	first := vals[0]
	for _, v := range vals[1:] {
		if v.Kind != first.Kind {
			return Expr{}, ErrTypeMismatch.
				Detail("%s applied to %s and %s", op, first.Kind, v.Kind).
				With(slog.String("operator", op.String()))
		}
	}

	if ev.trace {
		ev.logger.TraceContext(ctx, "operator",
			slog.String("operator", op.String()),
			slog.Int("operands", len(vals)),
			slog.String("kind", first.Kind.String()),
		)
	}

	if op.Arithmetic() {
		return fold(op, vals)
	}

	switch op {
	case OpEq:
		res := false

		for _, v := range vals[1:] {
			if !v.Equal(first) {
				return Boolean(false), nil
			}

			res = true
		}

		return Boolean(res), nil

	case OpNotEq:
		// Every pair is compared; once a difference is seen the result
		// stays true.
		res := false

		for _, v := range vals[1:] {
			res = res || !v.Equal(first)
		}

		return Boolean(res), nil

	case OpGreater, OpSmaller:
		res := false

		for _, v := range vals[1:] {
			c, err := compare(op, first, v)
			if err != nil {
				return Expr{}, err
			}

			if (op == OpGreater && c <= 0) || (op == OpSmaller && c >= 0) {
				return Boolean(false), nil
			}

			res = true
		}

		return Boolean(res), nil

	default:
		return Expr{}, ErrType.Detail("unknown operator %s", op)
	}
}

// fold applies an arithmetic operator left to right over operands of one
// numeric kind.
func fold(op Operator, vals []Expr) (Expr, error) {
	switch first := vals[0]; first.Kind {
	case KindInteger:
		acc := first.Int

		for _, v := range vals[1:] {
			switch op {
			case OpAdd:
				acc += v.Int
			case OpSub:
				acc -= v.Int
			case OpMul:
				acc *= v.Int
			case OpDiv:
				acc /= v.Int
			}
		}

		return Integer(acc), nil

	case KindFloat:
		acc := first.Float

		for _, v := range vals[1:] {
			switch op {
			case OpAdd:
				acc += v.Float
			case OpSub:
				acc -= v.Float
			case OpMul:
				acc *= v.Float
			case OpDiv:
				acc /= v.Float
			}
		}

		return Float(acc), nil

	default:
		return Expr{}, ErrType.
			Detail("%s requires Integer or Float operands, got %s", op, first.Kind).
			With(slog.String("operator", op.String()))
	}
}

// compare orders two operands of the same kind. NaN compares as neither
// greater nor smaller than anything.
func compare(op Operator, a, b Expr) (int, error) {
	switch a.Kind {
	case KindInteger:
		return cmpOrdered(a.Int, b.Int), nil

	case KindFloat:
		if a.Float != a.Float || b.Float != b.Float {
			return 0, nil
		}

		return cmpOrdered(a.Float, b.Float), nil

	case KindBool:
		return cmpOrdered(boolRank(a.Bool), boolRank(b.Bool)), nil

	default:
		return 0, ErrType.
			Detail("%s requires Integer, Float, or Bool operands, got %s", op, a.Kind).
			With(slog.String("operator", op.String()))
	}
}

func cmpOrdered[T int64 | float64 | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}
