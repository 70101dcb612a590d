package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xmastree/internal/checker"
)

func TestPlainNoViolations(t *testing.T) {
	out := Plain("input", nil)
	assert.Equal(t, "No problems found in input\n", out)
}

func TestPlainViolations(t *testing.T) {
	viols := []checker.Violation{
		{Prev: "int x;", Curr: "long long y;", Line: 4},
		{Prev: "long long y;", Curr: "unsigned long long z;", Line: 5},
	}

	want := "WARNING: Violation(s) in drv.c\n" +
		"Line 3\n" +
		"\tint x;\n" +
		"\tlong long y;\n" +
		"Line 4\n" +
		"\tlong long y;\n" +
		"\tunsigned long long z;\n"
	assert.Equal(t, want, Plain("drv.c", viols))
}

func TestStyledMatchesPlainLayout(t *testing.T) {
	viols := []checker.Violation{
		{Prev: "int x;", Curr: "long long y;", Line: 4},
	}

	out := Styled("drv.c", viols)
	assert.Contains(t, out, "WARNING: Violation(s) in drv.c")
	assert.Contains(t, out, "Line 3")
	assert.Contains(t, out, "\tint x;\n")
	assert.Contains(t, out, "\tlong long y;\n")
}

func TestStyledNoViolations(t *testing.T) {
	assert.Contains(t, Styled("input", nil), "No problems found in input")
}
