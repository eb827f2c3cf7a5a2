// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

func (vm *VM) compiling() bool {
	return vm.cellAt(addrState) != 0
}

func (vm *VM) setCompiling(on bool) {
	vm.setCell(addrState, flag(on))
}

// parseName parses a whitespace-delimited name for a defining
// word.
func (vm *VM) parseName(name string) ([]byte, error) {
	tok, err := vm.parseWord(' ')
	if err != nil {
		return nil, err
	}
	if len(tok) == 0 {
		return nil, abort(name + ": missing name")
	}
	return tok, nil
}

// create ( "<spaces>name" -- )
func (vm *VM) create() error {
	tok, err := vm.parseName("CREATE")
	if err != nil {
		return err
	}
	vm.alignHere()
	vm.dict = append(vm.dict, Word{
		name: string(tok),
		kind: codeCreate,
		body: vm.here,
		does: vm.here,
	})
	return nil
}

// : ( "<spaces>name" -- )
func (vm *VM) colon() error {
	if err := vm.create(); err != nil {
		return err
	}
	w := vm.latest()
	w.kind = codeColon
	w.flags ^= flagHidden
	vm.defining = len(vm.dict) - 1
	vm.setCompiling(true)
	return nil
}

// ; ( -- )
//
// Unhides the definition : started, which is not necessarily the
// latest entry: a defining word run at compile time may have
// created children since.
func (vm *VM) semicolon() error {
	if !vm.compiling() {
		return abort(";: not compiling")
	}
	if err := vm.data(";", vm.xtExit); err != nil {
		return err
	}
	vm.dict[vm.defining].flags ^= flagHidden
	vm.setCompiling(false)
	return nil
}

// literal ( x -- )
func (vm *VM) literal() error {
	if err := vm.d.need("LITERAL", 1, 0); err != nil {
		return err
	}
	if err := vm.data("LITERAL", vm.xtLiteral); err != nil {
		return err
	}
	return vm.data("LITERAL", vm.d.pop())
}

// immediate ( -- )
func (vm *VM) immediate() error {
	vm.latest().flags ^= flagImmediate
	return nil
}

// hidden ( -- )
func (vm *VM) hidden() error {
	vm.latest().flags ^= flagHidden
	return nil
}

// does> ( -- )
//
// Compiles (does) followed by EXIT, so the defining word wires
// its child and returns; the run-time clause follows the EXIT.
func (vm *VM) does() error {
	if err := vm.data("DOES>", vm.xtDoes); err != nil {
		return err
	}
	return vm.data("DOES>", vm.xtExit)
}

// [ ( -- )
func (vm *VM) leftBracket() error {
	vm.setCompiling(false)
	return nil
}

// ] ( -- )
func (vm *VM) rightBracket() error {
	vm.setCompiling(true)
	return nil
}

// compileString appends xt followed by an inline counted string,
// padding data space to the next cell boundary.
func (vm *VM) compileString(name string, xt Cell, s []byte) error {
	if len(s) > 255 {
		return abort(name + ": string too long")
	}
	if err := vm.data(name, xt); err != nil {
		return err
	}
	if err := vm.cdata(name, Cell(len(s))); err != nil {
		return err
	}
	for _, b := range s {
		if err := vm.cdata(name, Cell(b)); err != nil {
			return err
		}
	}
	vm.alignHere()
	return nil
}

// s" ( "ccc<quote>" -- | -- c-addr u )
func (vm *VM) sQuote() error {
	s, err := vm.parseString(`S"`)
	if err != nil {
		return err
	}
	if vm.compiling() {
		return vm.compileString(`S"`, vm.xtSLiteral, s)
	}
	// interpret state: leave the string in WORD's buffer
	if err := vm.d.need(`S"`, 0, 2); err != nil {
		return err
	}
	vm.mem[addrWordBuf] = byte(len(s))
	copy(vm.mem[addrWordBuf+1:], s)
	vm.d.push(addrWordBuf + 1)
	vm.d.push(Cell(len(s)))
	return nil
}

// ." ( "ccc<quote>" -- )
func (vm *VM) dotQuote() error {
	s, err := vm.parseString(`."`)
	if err != nil {
		return err
	}
	if vm.compiling() {
		return vm.compileString(`."`, vm.xtDotQuote, s)
	}
	return vm.print(string(s))
}

// abort" ( "ccc<quote>" -- )
func (vm *VM) abortQuote() error {
	s, err := vm.parseString(`ABORT"`)
	if err != nil {
		return err
	}
	if vm.compiling() {
		return vm.compileString(`ABORT"`, vm.xtAbortQuote, s)
	}
	return abort(string(s))
}

// abort ( i*x -- )
func (vm *VM) abortWord() error {
	return abort("")
}

// parseString collects input up to the next double quote.  The
// string length is limited by the counted-string representation.
func (vm *VM) parseString(name string) ([]byte, error) {
	s, err := vm.parseRaw('"')
	if err != nil {
		return nil, err
	}
	if len(s) > 255 {
		return nil, abort(name + ": string too long")
	}
	return s, nil
}
