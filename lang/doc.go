// Package lang implements a small S-expression language: a lexer, a
// recursive descent parser, lexically chained scopes, and a tree-walking
// evaluator.
//
// # Grammar
//
// Informal EBNF:
//
//	Program  → List
//	List     → '(' Item* ')'
//	Item     → List | Atom
//	Atom     → Integer | Float | Bool | Operator | Keyword | 'if' | Name
//	Integer  → '-'? [0-9]+
//	Float    → '-'? [0-9]+ '.' [0-9]*
//	Bool     → '#t' | '#f'
//	Operator → '+' | '-' | '*' | '/' | '==' | '!=' | '>' | '<'
//	Keyword  → 'def' | 'lambda'
//	Name     → [a-zA-Z] [a-zA-Z0-9_-]*
//
// A program is a single list. Input that matches no rule is skipped unless
// [WithStrict] is given.
//
// # Evaluation
//
//	(def NAME EXPR)             bind NAME in the current scope; yields nothing
//	(lambda (PARAMS...) (BODY)) a closure value
//	(if COND THEN ELSE)         COND must be Bool; only one branch runs
//	(OP ARGS...)                fold or compare operands of one kind
//	(NAME ARGS...)              call the closure bound to NAME
//	(ITEMS...)                  evaluate each item, collecting non-void results
//
// A closure body runs in a new scope whose parent is the scope of the call,
// so names free in the body resolve at the call site.
//
// # Example
//
//	s := lang.NewScope()
//	v, err := lang.Evaluate(ctx, "((def sqr (lambda (r) (* r r))) (sqr 10))", s)
//	// v.String() == "(100)"
//
// [Evaluate] caches parse results by source text, so re-evaluating the same
// program skips lexing and parsing.
package lang
