package page

import "strings"

// Expr is one `{{ ... }}` span found by Parse: its byte offsets in the
// original input (Start inclusive, End exclusive, both including the
// delimiters) and the raw expression text between the delimiters.
type Expr struct {
	Start      int
	End        int
	Expression string
}

// Parse extracts every `{{ expr }}` run from input, honouring brace
// nesting (`{{ {a:b} }}`), quoted strings ('…', "…", `…`) with their escape
// sequences, and `${…}` interpolations inside backtick template literals.
//
// An unclosed `{{` is not an error: the scanner treats it as a no-op and
// moves past the opening delimiter, leaving the rest of the string as
// literal text.
func Parse(input string) []Expr {
	var exprs []Expr
	i := 0
	n := len(input)

	for i < n {
		if i+1 < n && input[i] == '{' && input[i+1] == '{' {
			start := i
			j := i + 2
			depth := 0
			closed := false

			for j < n {
				switch input[j] {
				case '{':
					depth++
					j++
				case '}':
					if depth == 0 && j+1 < n && input[j+1] == '}' {
						j += 2
						closed = true
					} else {
						if depth > 0 {
							depth--
						}
						j++
					}
				case '\'', '"', '`':
					var err error
					j, err = skipQuoted(input, j, depth)
					if err != nil {
						j = n // unterminated string; bail to end of input
					}
				default:
					j++
				}

				if closed {
					break
				}
			}

			if closed {
				exprs = append(exprs, Expr{
					Start:      start,
					End:        j,
					Expression: strings.TrimSpace(input[start+2 : j-2]),
				})
				i = j
				continue
			}

			// Unclosed `{{`: no-op, advance past the opening delimiter only.
			i += 2
			continue
		}
		i++
	}

	return exprs
}

// skipQuoted scans a quoted string (or, inside a backtick literal, a
// `${...}` interpolation) starting at the opening quote character input[j],
// returning the index just past the matching closing quote. depth is the
// current `{{ }}` brace depth, needed so that a `${` inside a backtick
// literal can recurse into ordinary brace counting for the interpolation.
func skipQuoted(input string, j int, depth int) (int, error) {
	quote := input[j]
	j++
	n := len(input)

	for j < n {
		switch input[j] {
		case '\\':
			j += 2 // skip the escaped character too
			continue
		case quote:
			return j + 1, nil
		case '$':
			if quote == '`' && j+1 < n && input[j+1] == '{' {
				// ${...} interpolation: count braces until it balances.
				j += 2
				innerDepth := 1
				for j < n && innerDepth > 0 {
					switch input[j] {
					case '{':
						innerDepth++
						j++
					case '}':
						innerDepth--
						j++
					case '\'', '"', '`':
						var err error
						j, err = skipQuoted(input, j, depth)
						if err != nil {
							return j, err
						}
					default:
						j++
					}
				}
				continue
			}
			j++
		default:
			j++
		}
	}

	return j, errUnterminatedString
}

var errUnterminatedString = &parseError{"unterminated quoted string"}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

// EvalFunc evaluates one extracted expression and returns its string
// rendering. Render and RenderAsync never inspect the result beyond calling
// this function once per match.
type EvalFunc func(expression string) string

// Render substitutes every `{{ expr }}` span in template with eval's output,
// walking matches from last to first so that earlier offsets are never
// invalidated by a substitution changing the string's length.
func Render(template string, eval EvalFunc) string {
	exprs := Parse(template)
	out := template
	for i := len(exprs) - 1; i >= 0; i-- {
		e := exprs[i]
		out = out[:e.Start] + eval(e.Expression) + out[e.End:]
	}
	return out
}

// AsyncEvalFunc is the async counterpart of EvalFunc.
type AsyncEvalFunc func(expression string) (string, error)

// RenderAsync awaits each expression's evaluation sequentially, in source
// order, and only then substitutes all of them (last to first, as Render
// does) so that offsets recorded by Parse stay valid throughout.
func RenderAsync(template string, eval AsyncEvalFunc) (string, error) {
	exprs := Parse(template)
	results := make([]string, len(exprs))
	for i, e := range exprs {
		r, err := eval(e.Expression)
		if err != nil {
			return "", err
		}
		results[i] = r
	}

	out := template
	for i := len(exprs) - 1; i >= 0; i-- {
		e := exprs[i]
		out = out[:e.Start] + results[i] + out[e.End:]
	}
	return out, nil
}
