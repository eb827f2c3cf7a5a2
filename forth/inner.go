// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

// execute runs one dictionary entry.  Primitives run directly;
// the three synthetic kinds are dispatched here, threading the
// engine-wide instruction pointer through the return stack.
func (vm *VM) execute(xt Cell) error {
	if int(xt) >= len(vm.dict) {
		return abortf("EXECUTE: invalid execution token %d", xt)
	}
	w := &vm.dict[xt]
	vm.trace("execute %s\n", w.name)
	switch w.kind {
	case codePrim:
		return w.prim(vm)
	case codeColon:
		return vm.runBody(w.name, w.does)
	case codeCreate:
		if err := vm.d.need(w.name, 0, 1); err != nil {
			return err
		}
		vm.d.push(w.body)
		return nil
	default: // codeDoes
		if err := vm.d.need(w.name, 0, 1); err != nil {
			return err
		}
		vm.d.push(w.body)
		return vm.runBody(w.name, w.does)
	}
}

// runBody drives the inner interpreter over the cell sequence at
// addr until it reads xt(EXIT).  The caller's resume pointer is
// on top of the return stack for the whole run, where R@ finds
// it.
func (vm *VM) runBody(name string, addr Cell) error {
	if err := vm.r.need(name, 0, 1); err != nil {
		return err
	}
	vm.r.push(vm.next)
	vm.next = addr
	for {
		x, err := vm.readCell(name, vm.next)
		if err != nil {
			return err
		}
		if x == vm.xtExit {
			break
		}
		vm.next += cellSize
		if err := vm.execute(x); err != nil {
			return err
		}
	}
	if err := vm.r.need("EXIT", 1, 0); err != nil {
		return err
	}
	vm.next = vm.r.pop()
	return nil
}

// exit ( -- ) ( R: nest-sys -- )
//
// Compiled EXITs terminate the runBody loop before this is
// reached; the primitive exists for EXECUTE and for FIND.
func (vm *VM) exit() error {
	if err := vm.r.need("EXIT", 1, 0); err != nil {
		return err
	}
	vm.next = vm.r.pop()
	return nil
}

// executeWord ( i*x xt -- j*x )
func (vm *VM) executeWord() error {
	if err := vm.d.need("EXECUTE", 1, 0); err != nil {
		return err
	}
	return vm.execute(vm.d.pop())
}

// (literal) ( -- x )
//
// Pushes the cell following it in the compiled body and skips
// over it.
func (vm *VM) doLiteral() error {
	x, err := vm.readCell("(literal)", vm.next)
	if err != nil {
		return err
	}
	vm.next += cellSize
	if err := vm.d.need("(literal)", 0, 1); err != nil {
		return err
	}
	vm.d.push(x)
	return nil
}

// (branch) ( -- )
//
// Unconditional jump to the absolute target in the next cell.
func (vm *VM) doBranch() error {
	t, err := vm.readCell("(branch)", vm.next)
	if err != nil {
		return err
	}
	vm.next = t
	return nil
}

// (0branch) ( flag -- )
func (vm *VM) doZBranch() error {
	if err := vm.d.need("(0branch)", 1, 0); err != nil {
		return err
	}
	t, err := vm.readCell("(0branch)", vm.next)
	if err != nil {
		return err
	}
	if vm.d.pop() == 0 {
		vm.next = t
	} else {
		vm.next += cellSize
	}
	return nil
}

// (does) ( -- )
//
// Rewires the latest definition to push its data field and run
// the cells following the EXIT that DOES> compiled after this
// word.
func (vm *VM) doDoes() error {
	w := vm.latest()
	w.kind = codeDoes
	w.does = vm.next + cellSize
	return nil
}

// readCounted reads the counted string compiled inline at the
// instruction pointer and skips past it to the next aligned
// cell.
func (vm *VM) readCounted(name string) ([]byte, error) {
	n, err := vm.readByte(name, vm.next)
	if err != nil {
		return nil, err
	}
	s, err := vm.bytesAt(name, vm.next+1, n)
	if err != nil {
		return nil, err
	}
	vm.next = alignedCell(vm.next + 1 + n)
	return s, nil
}

// (sliteral) ( -- c-addr u )
func (vm *VM) doSLiteral() error {
	a := vm.next + 1
	s, err := vm.readCounted(`S"`)
	if err != nil {
		return err
	}
	if err := vm.d.need(`S"`, 0, 2); err != nil {
		return err
	}
	vm.d.push(a)
	vm.d.push(Cell(len(s)))
	return nil
}

// (.") ( -- )
func (vm *VM) doDotQuote() error {
	s, err := vm.readCounted(`."`)
	if err != nil {
		return err
	}
	return vm.print(string(s))
}

// (abort") ( i*x -- )
func (vm *VM) doAbortQuote() error {
	s, err := vm.readCounted(`ABORT"`)
	if err != nil {
		return err
	}
	return abort(string(s))
}
