// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Version is the engine version reported in the CLI banner.
const Version = "1.0.0"

// A LineReader supplies input lines to REFILL, without their
// trailing newline.  It returns io.EOF at end of input.  The CLI
// installs a line-editing reader here when standard input is a
// terminal.
type LineReader interface {
	ReadLine() (string, error)
}

type argRef struct {
	addr, len Cell
}

// VM is one Forth engine: two stacks, a data space, a dictionary
// and an instruction pointer.  Engines are independent; none of
// the state is shared.
type VM struct {
	in   *bufio.Reader
	out  io.Writer
	line LineReader
	logf func(string, ...interface{})

	d, r Stack
	mem  []byte
	here Cell
	dict []Word
	next Cell

	args []argRef
	argv []string

	checks     bool
	dataSize   int
	stackDepth int

	inQuit   bool
	defining int // dictionary index of the definition : opened

	// execution tokens of words the engine itself threads into
	// compiled bodies, resolved at reset
	xtExit       Cell
	xtLiteral    Cell
	xtDoes       Cell
	xtSLiteral   Cell
	xtDotQuote   Cell
	xtAbortQuote Cell
}

// An Option configures a VM at construction time.
type Option func(*VM)

func WithInput(r io.Reader) Option {
	return func(vm *VM) { vm.in = bufio.NewReader(r) }
}

func WithOutput(w io.Writer) Option {
	return func(vm *VM) { vm.out = w }
}

// WithLineReader installs a line source for REFILL, such as a
// line-editing terminal reader.  KEY still reads the input
// stream.
func WithLineReader(lr LineReader) Option {
	return func(vm *VM) { vm.line = lr }
}

// WithLogf enables trace logging through f.
func WithLogf(f func(string, ...interface{})) Option {
	return func(vm *VM) { vm.logf = f }
}

// WithDataSize sets the data-space size in bytes.
func WithDataSize(n int) Option {
	return func(vm *VM) { vm.dataSize = n }
}

// WithStackDepth sets the capacity of both stacks.
func WithStackDepth(n int) Option {
	return func(vm *VM) { vm.stackDepth = n }
}

// WithoutChecks disables all runtime checks.
func WithoutChecks() Option {
	return func(vm *VM) { vm.checks = false }
}

func New(opts ...Option) *VM {
	vm := &VM{
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		checks:     true,
		dataSize:   defaultDataSize,
		stackDepth: defaultStackDepth,
	}
	for _, o := range opts {
		o(vm)
	}
	return vm
}

func (vm *VM) trace(format string, a ...interface{}) {
	if vm.logf != nil {
		vm.logf(format, a...)
	}
}

func (vm *VM) print(s string) error {
	_, err := io.WriteString(vm.out, s)
	return err
}

// Reset reinitializes the whole engine: stacks, data space and
// dictionary are rebuilt, the reserved state cells are laid out,
// and the bootstrap source is evaluated.
func (vm *VM) Reset() error {
	vm.d = newStack("stack", vm.stackDepth, vm.checks)
	vm.r = newStack("return stack", vm.stackDepth, vm.checks)
	vm.mem = make([]byte, vm.dataSize)
	vm.dict = make([]Word, 0, 256)
	vm.next = 0
	vm.inQuit = false

	// reserved region: state cells, input buffers, arguments
	end := addrArgs
	vm.args = vm.args[:0]
	for _, a := range vm.argv {
		if int(end)+len(a) > vm.dataSize {
			return errors.New("forth: data space too small for arguments")
		}
		copy(vm.mem[end:], a)
		vm.args = append(vm.args, argRef{addr: end, len: Cell(len(a))})
		end += Cell(len(a))
	}
	vm.here = alignedCell(end)
	if int(vm.here) >= vm.dataSize {
		return errors.New("forth: data space too small")
	}
	vm.setCell(addrBase, 10)
	vm.setCell(addrSource, addrTIB)

	for _, p := range primitives {
		vm.defPrim(p.name, p.f, p.flags)
	}
	vm.xtExit = vm.xtOf("EXIT")
	vm.xtLiteral = vm.xtOf("(literal)")
	vm.xtDoes = vm.xtOf("(does)")
	vm.xtSLiteral = vm.xtOf("(sliteral)")
	vm.xtDotQuote = vm.xtOf(`(.")`)
	vm.xtAbortQuote = vm.xtOf(`(abort")`)

	for _, line := range bootstrap {
		if err := vm.Evaluate(line); err != nil {
			return fmt.Errorf("forth: bootstrap %q: %w", line, err)
		}
	}
	return nil
}

// Evaluate interprets src as if it were one input line, replacing
// the current input buffer.
func (vm *VM) Evaluate(src string) error {
	if len(src) > tibSize {
		return abort("EVALUATE: input too long")
	}
	copy(vm.mem[addrTIB:], src)
	vm.setCell(addrSource, addrTIB)
	vm.setCell(addrSourceLen, Cell(len(src)))
	vm.setCell(addrIn, 0)
	return vm.interpret()
}

// Run resets the engine, captures args for #ARG and ARG, and
// executes QUIT.  It returns the process exit status: 0 after
// BYE or end of input, nonzero on an uncaught host error.
func (vm *VM) Run(args []string) int {
	vm.argv = args
	if err := vm.Reset(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	err := vm.execute(vm.xtOf("QUIT"))
	if err == nil || errors.Is(err, Bye) {
		return 0
	}
	fmt.Fprintln(os.Stderr, "forth:", err)
	return 1
}
