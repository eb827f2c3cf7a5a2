// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

// Word flags
const (
	flagImmediate = Cell(1 << 0)
	flagHidden    = Cell(1 << 1)
)

type codeKind uint8

// Execution semantics of a dictionary entry, dispatched by the
// inner interpreter.
const (
	codePrim   codeKind = iota // host primitive
	codeColon                  // body is a cell sequence at does
	codeCreate                 // push body address
	codeDoes                   // push body address, run cells at does
)

// A Word is one dictionary entry.  body is the aligned data-space
// address of its data field; does is the address of its run-time
// cell sequence, equal to body unless DOES> rewired it.  An
// execution token is the entry's index in the dictionary.
type Word struct {
	name  string
	flags Cell
	kind  codeKind
	prim  func(*VM) error
	body  Cell
	does  Cell
}

func (w *Word) isImmediate() bool {
	return w.flags&flagImmediate != 0
}

func (w *Word) isHidden() bool {
	return w.flags&flagHidden != 0
}

func tolower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// weq reports whether two names match, ignoring ASCII case.
func weq(a []byte, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if tolower(a[i]) != tolower(b[i]) {
			return false
		}
	}
	return true
}

func (vm *VM) latest() *Word {
	return &vm.dict[len(vm.dict)-1]
}

// findWord scans the dictionary newest-first, skipping hidden
// entries.
func (vm *VM) findWord(name []byte) (Cell, bool) {
	if len(name) == 0 {
		return 0, false
	}
	for i := len(vm.dict) - 1; i >= 0; i-- {
		w := &vm.dict[i]
		if w.isHidden() {
			continue
		}
		if weq(name, w.name) {
			return Cell(i), true
		}
	}
	return 0, false
}

// xtOf looks up a word registered at reset; it must exist.
func (vm *VM) xtOf(name string) Cell {
	xt, ok := vm.findWord([]byte(name))
	if !ok {
		panic("forth: missing kernel word " + name)
	}
	return xt
}

func (vm *VM) defPrim(name string, f func(*VM) error, flags Cell) {
	vm.dict = append(vm.dict, Word{
		name:  name,
		flags: flags,
		kind:  codePrim,
		prim:  f,
	})
}

// find ( c-addr -- c-addr 0 | xt 1 | xt -1 )
func (vm *VM) find() error {
	if err := vm.d.need("FIND", 1, 2); err != nil {
		return err
	}
	caddr := vm.d.pop()
	n, err := vm.readByte("FIND", caddr)
	if err != nil {
		return err
	}
	name, err := vm.bytesAt("FIND", caddr+1, n)
	if err != nil {
		return err
	}
	xt, ok := vm.findWord(name)
	if !ok {
		vm.d.push(caddr)
		vm.d.push(forthFalse)
		return nil
	}
	vm.d.push(xt)
	if vm.dict[xt].isImmediate() {
		vm.d.push(1)
	} else {
		vm.d.push(forthTrue)
	}
	return nil
}

// words ( -- )
func (vm *VM) words() error {
	for i := len(vm.dict) - 1; i >= 0; i-- {
		if vm.dict[i].isHidden() {
			continue
		}
		if err := vm.print(vm.dict[i].name + " "); err != nil {
			return err
		}
	}
	return vm.print("\n")
}
