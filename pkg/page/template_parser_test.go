package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleExpressionWithQuotedBraces(t *testing.T) {
	exprs := Parse(`{{ "a}}b" }}`)
	require.Len(t, exprs, 1)
	assert.Equal(t, `"a}}b"`, exprs[0].Expression)
}

func TestParse_TemplateLiteralInterpolation(t *testing.T) {
	exprs := Parse("{{ `${x}` }}")
	require.Len(t, exprs, 1)
	assert.Equal(t, "`${x}`", exprs[0].Expression)
}

func TestParse_NestedObjectLiteral(t *testing.T) {
	exprs := Parse("{{ {k:v} }}")
	require.Len(t, exprs, 1)
	assert.Equal(t, "{k:v}", exprs[0].Expression)
}

func TestParse_UnclosedIsNoOp(t *testing.T) {
	exprs := Parse("prefix {{ never closed")
	assert.Empty(t, exprs)
}

func TestParse_SpansReconstructInput(t *testing.T) {
	inputs := []string{
		`Hello {{ name }}, you have {{ count }} items`,
		`{{ {k:v} }} and {{ "a}}b" }} and {{ `+"`${x}`"+` }}`,
		`no expressions here`,
		`{{ }}{{x}}`,
	}

	for _, in := range inputs {
		exprs := Parse(in)
		rebuilt := ""
		last := 0
		for _, e := range exprs {
			rebuilt += in[last:e.Start]
			rebuilt += in[e.Start:e.End]
			last = e.End
		}
		rebuilt += in[last:]
		assert.Equal(t, in, rebuilt, "spans plus literal gaps must reconstruct %q", in)
	}
}

func TestRender_SubstitutesFromLastToFirst(t *testing.T) {
	out := Render("{{ a }} and {{ bb }}", func(expr string) string {
		return "[" + expr + "]"
	})
	assert.Equal(t, "[a] and [bb]", out)
}

func TestRenderAsync_SequentialThenSubstitute(t *testing.T) {
	var order []string
	out, err := RenderAsync("{{ a }}-{{ b }}", func(expr string) (string, error) {
		order = append(order, expr)
		return expr + "!", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a!-b!", out)
	assert.Equal(t, []string{"a", "b"}, order)
}
