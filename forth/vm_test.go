// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVM(t *testing.T, input string) (*VM, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	vm := New(WithInput(strings.NewReader(input)), WithOutput(&out))
	require.NoError(t, vm.Reset())
	return vm, &out
}

// runSession feeds input to QUIT and returns everything written
// to standard output.
func runSession(t *testing.T, input string) string {
	t.Helper()
	vm, out := newTestVM(t, input)
	err := vm.execute(vm.xtOf("QUIT"))
	require.ErrorIs(t, err, Bye)
	assertInvariants(t, vm)
	return out.String()
}

func assertInvariants(t *testing.T, vm *VM) {
	t.Helper()
	require.LessOrEqual(t, len(vm.d.cells), cap(vm.d.cells))
	require.LessOrEqual(t, len(vm.r.cells), cap(vm.r.cells))
	require.LessOrEqual(t, int(vm.here), len(vm.mem))
	state := vm.cellAt(addrState)
	require.True(t, state == forthFalse || state == forthTrue,
		"STATE must be 0 or true, got %x", state)
	for i := range vm.dict {
		require.LessOrEqual(t, vm.dict[i].kind, codeDoes)
	}
}

func TestSessions(t *testing.T) {
	for _, tc := range []struct {
		name, in, want string
	}{
		{"add", "1 2 + .\n", "3   ok\n\n"},
		{"colon definition",
			": SQUARE DUP * ;\n7 SQUARE .\n",
			"  ok\n49   ok\n\n"},
		{"hex to decimal", "HEX 10\nDECIMAL .\n", "  ok\n16   ok\n\n"},
		{"literal in definition",
			": COUNTER 0 ;\nCOUNTER 1+ .\n",
			"  ok\n1   ok\n\n"},
		{"variable",
			"VARIABLE X\n42 X ! X @ .\n",
			"  ok\n42   ok\n\n"},
		{"constant in definition",
			": C 5 CONSTANT FIVE ;\nC FIVE FIVE + .\n",
			"  ok\n10   ok\n\n"},
		{"zero divisor",
			"1 0 /\n",
			"<<< Error: /: zero divisor >>>\n  ok\n\n"},
		{"unknown word",
			"FOO\n",
			"<<< Error: unrecognized word: FOO >>>\n  ok\n\n"},
		{"abort is silent", "1 2 ABORT\n\n", "  ok\n  ok\n\n"},
		{"no prompt while compiling",
			": HALF\n2 / ;\n6 HALF .\n",
			"  ok\n3   ok\n\n"},
		{"nested quit",
			": T QUIT ; T\n",
			"<<< Error: QUIT: nested invocation >>>\n  ok\n\n"},
		{"underflow message",
			"DROP\n",
			"<<< Error: DROP: stack underflow >>>\n  ok\n\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, runSession(t, tc.in))
		})
	}
}

func TestStackLaws(t *testing.T) {
	for _, x := range []int{0, 1, -1, 42, 1 << 20} {
		vm, _ := newTestVM(t, "")
		vm.d.push(Cell(x))
		require.NoError(t, vm.Evaluate("DUP DROP"))
		require.Equal(t, []Cell{Cell(x)}, vm.d.cells, "x DUP DROP")
		require.NoError(t, vm.Evaluate("7 SWAP SWAP"))
		require.Equal(t, []Cell{Cell(x), 7}, vm.d.cells, "SWAP involution")
	}
}

func TestSlashModLaw(t *testing.T) {
	vm, _ := newTestVM(t, "")
	for _, tc := range []struct{ a, b int }{
		{7, 2}, {-7, 2}, {7, -2}, {-7, -2}, {0, 5}, {100, 7},
	} {
		vm.d.clear()
		vm.d.push(Cell(tc.a))
		vm.d.push(Cell(tc.b))
		require.NoError(t, vm.Evaluate("/MOD"))
		require.Equal(t, []Cell{Cell(tc.a % tc.b), Cell(tc.a / tc.b)},
			vm.d.cells, "%d %d /MOD", tc.a, tc.b)
		// a b /MOD b * + = a  (quotient times b, plus remainder)
		vm.d.push(Cell(tc.b))
		require.NoError(t, vm.Evaluate("*"))
		require.NoError(t, vm.Evaluate("+"))
		require.Equal(t, []Cell{Cell(tc.a)}, vm.d.cells)
	}
}

func TestCompileRunRoundTrip(t *testing.T) {
	interp, _ := newTestVM(t, "")
	require.NoError(t, interp.Evaluate("3 4 + 2 *"))

	compiled, _ := newTestVM(t, "")
	require.NoError(t, compiled.Evaluate(": N 3 4 + 2 * ;"))
	require.NoError(t, compiled.Evaluate("N"))

	require.Equal(t, interp.d.cells, compiled.d.cells)
}

func TestHiddenDuringDefinition(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(": G 1 ;"))
	require.NoError(t, vm.Evaluate(": G G 2 + ;"))
	require.NoError(t, vm.Evaluate("G"))
	require.Equal(t, []Cell{3}, vm.d.cells)
}

func TestAbortRecovery(t *testing.T) {
	vm, _ := newTestVM(t, "")
	err := vm.Evaluate("1 2 3 ABORT")
	var a *Abort
	require.ErrorAs(t, err, &a)
	require.Equal(t, "", a.Msg)

	// the handler, not the raising site, resets the stacks
	require.NotEmpty(t, vm.d.cells)
	vm.d.clear()
	vm.r.clear()
	vm.setCompiling(false)
	assertInvariants(t, vm)

	// HERE and the dictionary survive an abort mid-definition
	here := vm.here
	words := len(vm.dict)
	err = vm.Evaluate(": BROKEN 1 NOSUCH")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "unrecognized word: NOSUCH", a.Msg)
	require.Greater(t, int(vm.here), int(here))
	require.Equal(t, words+1, len(vm.dict))
	require.True(t, vm.latest().isHidden(), "partial definition stays hidden")
	vm.setCompiling(false)

	_, ok := vm.findWord([]byte("BROKEN"))
	require.False(t, ok)
}

func TestCaseFolding(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(": HELLO 99 ;"))
	for _, name := range []string{"HELLO", "hello", "HeLLo"} {
		vm.d.clear()
		require.NoError(t, vm.Evaluate(name))
		require.Equal(t, []Cell{99}, vm.d.cells, name)
	}
}

func TestPickRollBoundaries(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate("10 20 30"))

	require.NoError(t, vm.Evaluate("0 PICK")) // DUP
	require.Equal(t, []Cell{10, 20, 30, 30}, vm.d.cells)
	require.NoError(t, vm.Evaluate("DROP"))

	require.NoError(t, vm.Evaluate("0 ROLL")) // no-op
	require.Equal(t, []Cell{10, 20, 30}, vm.d.cells)

	require.NoError(t, vm.Evaluate("1 ROLL")) // SWAP
	require.Equal(t, []Cell{10, 30, 20}, vm.d.cells)

	require.NoError(t, vm.Evaluate("2 ROLL")) // ROT
	require.Equal(t, []Cell{30, 20, 10}, vm.d.cells)

	// negative indices abort instead of reaching past the stack
	var a *Abort
	err := vm.Evaluate("-1 PICK")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "PICK: stack underflow", a.Msg)
	require.Equal(t, []Cell{30, 20, 10}, vm.d.cells)

	err = vm.Evaluate("-1 ROLL")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "ROLL: stack underflow", a.Msg)
	require.Equal(t, []Cell{30, 20, 10}, vm.d.cells)
}

func TestNameLengthBoundaries(t *testing.T) {
	vm, _ := newTestVM(t, "")

	long := strings.Repeat("N", 255)
	require.NoError(t, vm.Evaluate(": "+long+" 7 ;"))
	require.NoError(t, vm.Evaluate(long))
	require.Equal(t, []Cell{7}, vm.d.cells)

	var a *Abort
	err := vm.Evaluate(": " + strings.Repeat("N", 256) + " 8 ;")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "WORD: word too long", a.Msg)

	err = vm.Evaluate("CREATE")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "CREATE: missing name", a.Msg)
	vm.setCompiling(false)
}

func TestBaseParsing(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate("2 BASE ! 101"))
	require.Equal(t, []Cell{5}, vm.d.cells)
	vm.d.clear()

	require.NoError(t, vm.Evaluate("HEX ff"))
	require.Equal(t, []Cell{255}, vm.d.cells)
	vm.d.clear()

	require.NoError(t, vm.Evaluate("-FF"))
	require.Len(t, vm.d.cells, 1)
	require.Equal(t, -255, sCell(vm.d.cells[0]))
	vm.d.clear()

	require.NoError(t, vm.Evaluate("DECIMAL"))
	var a *Abort
	err := vm.Evaluate("1F")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "unrecognized word: 1F", a.Msg)
}

func TestCreateDoes(t *testing.T) {
	vm, out := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(": DOUBLED CREATE , DOES> @ 2* ;"))
	require.NoError(t, vm.Evaluate("21 DOUBLED TWICE"))
	require.NoError(t, vm.Evaluate("TWICE ."))
	require.Equal(t, "42 ", out.String())
	assertInvariants(t, vm)
}

func TestControlFlow(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(": MYABS DUP 0< IF NEGATE THEN ;"))
	require.NoError(t, vm.Evaluate("-5 MYABS 5 MYABS"))
	require.Equal(t, []Cell{5, 5}, vm.d.cells)
	vm.d.clear()

	require.NoError(t, vm.Evaluate(": SIGN DUP 0< IF DROP -1 ELSE 0> IF 1 ELSE 0 THEN THEN ;"))
	require.NoError(t, vm.Evaluate("-9 SIGN 0 SIGN 9 SIGN"))
	require.Equal(t, []Cell{forthTrue, 0, 1}, vm.d.cells)
	vm.d.clear()

	require.NoError(t, vm.Evaluate(": COUNTDOWN BEGIN 1- DUP 0= UNTIL ;"))
	require.NoError(t, vm.Evaluate("5 COUNTDOWN"))
	require.Equal(t, []Cell{0}, vm.d.cells)
	vm.d.clear()

	require.NoError(t, vm.Evaluate(": TRI 0 SWAP BEGIN DUP 0> WHILE TUCK + SWAP 1- REPEAT DROP ;"))
	require.NoError(t, vm.Evaluate("4 TRI 100 TRI"))
	require.Equal(t, []Cell{10, 5050}, vm.d.cells)
}

func TestStrings(t *testing.T) {
	vm, out := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(`: GREET ." hello" ;`))
	require.NoError(t, vm.Evaluate("GREET"))
	require.Equal(t, "hello", out.String())
	out.Reset()

	require.NoError(t, vm.Evaluate(`: AB S" AB" ;`))
	require.NoError(t, vm.Evaluate("AB TYPE"))
	require.Equal(t, "AB", out.String())
	out.Reset()

	require.NoError(t, vm.Evaluate(`: BOOM ABORT" it broke" ;`))
	err := vm.Evaluate("BOOM")
	var a *Abort
	require.ErrorAs(t, err, &a)
	require.Equal(t, "it broke", a.Msg)
}

func TestEvaluateWord(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(`S" 1 2 +" EVALUATE`))
	require.Equal(t, []Cell{3}, vm.d.cells)
}

func TestTick(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate("' DUP"))
	require.NoError(t, vm.Evaluate("' dup"))
	require.Len(t, vm.d.cells, 2)
	require.Equal(t, vm.d.cells[0], vm.d.cells[1])
	xt := vm.d.cells[0]
	require.Equal(t, "DUP", vm.dict[xt].name)

	vm.d.clear()
	require.NoError(t, vm.Evaluate("42 ' DUP EXECUTE"))
	require.Equal(t, []Cell{42, 42}, vm.d.cells)
}

func TestBracketLiteral(t *testing.T) {
	vm, _ := newTestVM(t, "")
	require.NoError(t, vm.Evaluate(": FOUR [ 2 2 + ] LITERAL ;"))
	require.NoError(t, vm.Evaluate("FOUR"))
	require.Equal(t, []Cell{4}, vm.d.cells)
}

func TestDump(t *testing.T) {
	vm, out := newTestVM(t, "")
	require.NoError(t, vm.Evaluate("HERE 1 2 3 , , ,"))
	require.NoError(t, vm.Evaluate("3 CELLS DUMP"))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], ": ")
}

func TestArgs(t *testing.T) {
	vm, out := newTestVM(t, "")
	vm.argv = []string{"goforth", "hello"}
	require.NoError(t, vm.Reset())

	require.NoError(t, vm.Evaluate("#ARG"))
	require.Equal(t, []Cell{2}, vm.d.cells)
	vm.d.clear()

	require.NoError(t, vm.Evaluate("1 ARG TYPE"))
	require.Equal(t, "hello", out.String())

	var a *Abort
	err := vm.Evaluate("5 ARG")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "ARG: invalid index", a.Msg)

	vm.d.clear()
	err = vm.Evaluate("-1 ARG")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "ARG: invalid index", a.Msg)
}

func TestKey(t *testing.T) {
	vm, _ := newTestVM(t, "AB")
	require.NoError(t, vm.Evaluate("KEY KEY KEY"))
	require.Equal(t, []Cell{'A', 'B', forthTrue}, vm.d.cells)
}

func TestDotS(t *testing.T) {
	vm, out := newTestVM(t, "")
	require.NoError(t, vm.Evaluate("1 -2 3 .S"))
	require.Equal(t, "<3> 1 -2 3 ", out.String())
}

func TestMemoryAborts(t *testing.T) {
	vm, _ := newTestVM(t, "")
	var a *Abort

	err := vm.Evaluate("1 @")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "@: unaligned address", a.Msg)

	vm.d.clear()
	err = vm.Evaluate("-8 @")
	require.ErrorAs(t, err, &a)
	require.Equal(t, "@: address out of range", a.Msg)
}

func TestAllotUnused(t *testing.T) {
	vm, _ := newTestVM(t, "")
	here := vm.here
	require.NoError(t, vm.Evaluate("16 ALLOT -16 ALLOT"))
	require.Equal(t, here, vm.here)

	require.NoError(t, vm.Evaluate("UNUSED"))
	require.Equal(t, []Cell{Cell(len(vm.mem)) - vm.here}, vm.d.cells)
}

func TestWithoutChecks(t *testing.T) {
	var out bytes.Buffer
	vm := New(WithInput(strings.NewReader("")), WithOutput(&out), WithoutChecks())
	require.NoError(t, vm.Reset())
	require.NoError(t, vm.Evaluate("1 2 + ."))
	require.Equal(t, "3 ", out.String())
}

func TestIndependentEngines(t *testing.T) {
	a, _ := newTestVM(t, "")
	b, _ := newTestVM(t, "")
	require.NoError(t, a.Evaluate(": ONLYA 1 ;"))
	_, ok := b.findWord([]byte("ONLYA"))
	require.False(t, ok)
}
