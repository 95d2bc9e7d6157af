package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Native converts e to plain Go values suitable for JSON or YAML encoding.
//
//	Void        nil
//	Integer     int64
//	Float       float64
//	Bool        bool
//	Name        string
//	Keyword     string
//	Operator    string (its symbol)
//	Condition   "if"
//	List        []any
//	Lambda      map with "params" and "body"
func (e Expr) Native() any {
	switch e.Kind {
	case KindVoid:
		return nil
	case KindInteger:
		return e.Int
	case KindFloat:
		return e.Float
	case KindBool:
		return e.Bool
	case KindOperator:
		return e.Op.String()
	case KindCondition:
		return KeywordIf
	case KindKeyword, KindName:
		return e.Str
	case KindList:
		return nativeItems(e.Items)
	case KindLambda:
		params := make([]any, len(e.Params))
		for i, p := range e.Params {
			params[i] = p
		}

		return map[string]any{
			"lambda": map[string]any{
				"params": params,
				"body":   nativeItems(e.Items),
			},
		}
	default:
		return nil
	}
}

func nativeItems(items []Expr) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.Native()
	}

	return out
}

// FormatJSON writes the native form of e as JSON. A positive indent
// produces multiline output.
func FormatJSON(_ context.Context, w io.Writer, e Expr, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(e.Native(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(e.Native())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the native form of e as YAML. A positive indent
// produces block style; otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, e Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, e.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Format writes e as source text. With a positive indent, lists whose
// single-line form would exceed width are broken one element per line.
func Format(_ context.Context, w io.Writer, e Expr, indent int) error {
	var sb strings.Builder

	if indent > 0 {
		pretty(&sb, e, indent, 0)
	} else {
		sb.WriteString(e.String())
	}

	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// width is the column limit used by [Format] before breaking a list.
const width = 80

func pretty(sb *strings.Builder, e Expr, indent, depth int) {
	flat := e.String()

	if e.Kind != KindList || len(e.Items) == 0 || depth*indent+len(flat) <= width {
		sb.WriteString(flat)

		return
	}

	pad := strings.Repeat(" ", (depth+1)*indent)

	sb.WriteByte('(')

	for i, item := range e.Items {
		if i > 0 {
			sb.WriteString("\n" + pad)
		}

		pretty(sb, item, indent, depth+1)
	}

	sb.WriteByte(')')
}

// Print writes an indented dump of the tree rooted at e, one node per line.
func Print(_ context.Context, w io.Writer, e Expr) {
	printIndent(writer(w), e, 0)
}

func printIndent(put func(eol string, item ...string), e Expr, depth int) {
	prefix := strings.Repeat("  ", depth)

	switch e.Kind {
	case KindList:
		put("\n", prefix+"List", strconv.Itoa(len(e.Items)))

		for _, item := range e.Items {
			printIndent(put, item, depth+1)
		}

	case KindLambda:
		put("\n", prefix+"Lambda", "("+strings.Join(e.Params, " ")+")")

		for _, item := range e.Items {
			printIndent(put, item, depth+1)
		}

	case KindVoid, KindCondition:
		put("\n", prefix+e.Kind.String())

	default:
		put("\n", prefix+e.Kind.String(), e.String())
	}
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

// Format writes the bindings visible from s as a program of def forms, one
// per line, in name order. Evaluating the program in a fresh scope
// recreates the bindings. Void bindings are omitted.
func (s *Scope) Format(ctx context.Context, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("(")

	n := 0

	for name, v := range s.All() {
		if v.IsVoid() {
			continue
		}

		if n > 0 {
			sb.WriteString("\n ")
		}

		sb.WriteString(List(Keyword(KeywordDef), Name(name), v).String())

		n++
	}

	sb.WriteString(")\n")

	_, err := io.WriteString(w, sb.String())

	return err
}
