package compiler

import (
	"strings"
	"testing"
)

func TestParseMinimalProgram(t *testing.T) {
	program, err := Parse("int main() { return 2; }")
	if err != nil {
		t.Fatal(err)
	}
	if program.Func.Name != "main" {
		t.Errorf("function name = %q, want main", program.Func.Name)
	}
	c, ok := program.Func.Statement.Expr.Value.(Constant)
	if !ok {
		t.Fatalf("expression = %T, want Constant", program.Func.Statement.Expr.Value)
	}
	if c != 2 {
		t.Errorf("constant = %d, want 2", c)
	}
}

func TestCompileEmitsExpectedAssembly(t *testing.T) {
	program, err := Parse("int main() { return 9; }")
	if err != nil {
		t.Fatal(err)
	}
	asm, err := Compile(program)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(asm, "LD     V0, #09") {
		t.Errorf("assembly missing load of return value:\n%s", asm)
	}
	if !strings.Contains(asm, "DRW    V0, V1, #F") {
		t.Errorf("assembly missing draw instruction:\n%s", asm)
	}
}

func TestCompileRejectsOutOfRangeReturnValue(t *testing.T) {
	program, err := Parse("int main() { return 42; }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Compile(program); err == nil {
		t.Fatal("expected an error for a return value > 0xF")
	}
}

func TestParseRejectsMalformedProgram(t *testing.T) {
	if _, err := Parse("int main() { return; }"); err == nil {
		t.Fatal("expected a parse error for a missing return value")
	}
}
