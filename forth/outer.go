// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

import (
	"errors"
	"io"
	"strings"
)

func isDelim(b, delim byte) bool {
	if delim == ' ' {
		return b <= 0x20
	}
	return b == delim
}

// parseSpan implements PARSE: collect characters from >IN up to
// but not through the next delimiter, without skipping leading
// delimiters.  It advances >IN past the closing delimiter.
func (vm *VM) parseSpan(delim byte) (Cell, []byte, error) {
	srcAddr := vm.cellAt(addrSource)
	srcLen := vm.cellAt(addrSourceLen)
	src, err := vm.bytesAt("PARSE", srcAddr, srcLen)
	if err != nil {
		return 0, nil, err
	}
	in := vm.cellAt(addrIn)
	if in > srcLen {
		in = srcLen
	}
	start := in
	for in < srcLen && !isDelim(src[in], delim) {
		in++
	}
	s := src[start:in]
	if in < srcLen {
		in++
	}
	vm.setCell(addrIn, in)
	return srcAddr + start, s, nil
}

func (vm *VM) parseRaw(delim byte) ([]byte, error) {
	_, s, err := vm.parseSpan(delim)
	return s, err
}

// parseWord implements WORD: skip leading delimiters, collect up
// to the next one, and leave the token as a counted string in
// the word buffer.
func (vm *VM) parseWord(delim byte) ([]byte, error) {
	tok, err := vm.scanWord(delim)
	if err != nil {
		return nil, err
	}
	vm.mem[addrWordBuf] = byte(len(tok))
	copy(vm.mem[addrWordBuf+1:], tok)
	return vm.mem[addrWordBuf+1 : addrWordBuf+1+Cell(len(tok))], nil
}

// scanWord skips leading delimiters and returns the next token
// as a slice of the input buffer, advancing >IN past its closing
// delimiter.  It leaves the word buffer untouched.
func (vm *VM) scanWord(delim byte) ([]byte, error) {
	srcAddr := vm.cellAt(addrSource)
	srcLen := vm.cellAt(addrSourceLen)
	src, err := vm.bytesAt("WORD", srcAddr, srcLen)
	if err != nil {
		return nil, err
	}
	in := vm.cellAt(addrIn)
	if in > srcLen {
		in = srcLen
	}
	for in < srcLen && isDelim(src[in], delim) {
		in++
	}
	start := in
	for in < srcLen && !isDelim(src[in], delim) {
		in++
	}
	tok := src[start:in]
	if in < srcLen {
		in++
	}
	vm.setCell(addrIn, in)
	if len(tok) > 255 {
		return nil, abort("WORD: word too long")
	}
	vm.trace("word %s\n", tok)
	return tok, nil
}

// word ( delim "<delims>ccc<delim>" -- c-addr )
func (vm *VM) wordPrim() error {
	if err := vm.d.need("WORD", 1, 1); err != nil {
		return err
	}
	if _, err := vm.parseWord(byte(vm.d.pop())); err != nil {
		return err
	}
	vm.d.push(addrWordBuf)
	return nil
}

// parse ( delim "ccc<delim>" -- c-addr u )
func (vm *VM) parsePrim() error {
	if err := vm.d.need("PARSE", 1, 2); err != nil {
		return err
	}
	addr, s, err := vm.parseSpan(byte(vm.d.pop()))
	if err != nil {
		return err
	}
	vm.d.push(addr)
	vm.d.push(Cell(len(s)))
	return nil
}

func digit(b byte, base Cell) (Cell, bool) {
	var d Cell
	switch {
	case b >= '0' && b <= '9':
		d = Cell(b - '0')
	case b >= 'a' && b <= 'z':
		d = Cell(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		d = Cell(b-'A') + 10
	default:
		return 0, false
	}
	if d >= base {
		return 0, false
	}
	return d, true
}

// unum accumulates digits valid in base onto u0 and reports how
// many bytes were left unconsumed.
func unum(u0 Cell, s []byte, base Cell) (Cell, int) {
	for i, b := range s {
		d, ok := digit(b, base)
		if !ok {
			return u0, len(s) - i
		}
		u0 = u0*base + d
	}
	return u0, 0
}

// num wraps unum, honoring a leading minus sign.
func num(n0 Cell, s []byte, base Cell) (Cell, int) {
	if len(s) > 0 && s[0] == '-' {
		u, rest := unum(n0, s[1:], base)
		return -u, rest
	}
	return unum(n0, s, base)
}

// >unum ( u0 c-addr1 u1 -- u c-addr2 u2 )
func (vm *VM) toUNum() error {
	return vm.convert(">UNUM", unum)
}

// >num ( n0 c-addr1 u1 -- n c-addr2 u2 )
func (vm *VM) toNum() error {
	return vm.convert(">NUM", num)
}

func (vm *VM) convert(name string, f func(Cell, []byte, Cell) (Cell, int)) error {
	if err := vm.d.need(name, 3, 3); err != nil {
		return err
	}
	u1 := vm.d.pop()
	addr := vm.d.pop()
	u0 := vm.d.pop()
	s, err := vm.bytesAt(name, addr, u1)
	if err != nil {
		return err
	}
	u, rest := f(u0, s, vm.cellAt(addrBase))
	vm.d.push(u)
	vm.d.push(addr + u1 - Cell(rest))
	vm.d.push(Cell(rest))
	return nil
}

// interpret runs the outer interpreter over the current input
// buffer: look each token up and execute or compile it, or
// compile or push it as a number.  Tokens are scanned without
// going through the word buffer, so a counted string left there
// by WORD or S" survives until the next word consumes it.
func (vm *VM) interpret() error {
	for {
		tok, err := vm.scanWord(' ')
		if err != nil {
			return err
		}
		if len(tok) == 0 {
			return nil
		}
		if xt, ok := vm.findWord(tok); ok {
			if vm.compiling() && !vm.dict[xt].isImmediate() {
				if err := vm.data("INTERPRET", xt); err != nil {
					return err
				}
			} else if err := vm.execute(xt); err != nil {
				return err
			}
			continue
		}
		n, rest := num(0, tok, vm.cellAt(addrBase))
		if rest != 0 {
			return abortf("unrecognized word: %s", tok)
		}
		if vm.compiling() {
			if err := vm.data("INTERPRET", vm.xtLiteral); err != nil {
				return err
			}
			if err := vm.data("INTERPRET", n); err != nil {
				return err
			}
		} else {
			if err := vm.d.need("INTERPRET", 0, 1); err != nil {
				return err
			}
			vm.d.push(n)
		}
	}
}

// interpret ( -- )
func (vm *VM) interpretPrim() error {
	return vm.interpret()
}

func (vm *VM) readInputLine() (string, bool, error) {
	if vm.line != nil {
		s, err := vm.line.ReadLine()
		switch err {
		case nil:
			return s, true, nil
		case io.EOF:
			return "", false, nil
		default:
			return "", false, err
		}
	}
	s, err := vm.in.ReadString('\n')
	switch {
	case err == nil:
		return strings.TrimRight(s, "\r\n"), true, nil
	case err == io.EOF:
		if s == "" {
			return "", false, nil
		}
		return strings.TrimRight(s, "\r"), true, nil
	default:
		return "", false, err
	}
}

// refill reads one line into the terminal input buffer and makes
// it the current source.
func (vm *VM) refill() (bool, error) {
	line, ok, err := vm.readInputLine()
	if err != nil || !ok {
		return false, err
	}
	if len(line) > tibSize {
		return false, abort("REFILL: input line too long")
	}
	copy(vm.mem[addrTIB:], line)
	vm.setCell(addrSource, addrTIB)
	vm.setCell(addrSourceLen, Cell(len(line)))
	vm.setCell(addrIn, 0)
	return true, nil
}

// refill ( -- flag )
func (vm *VM) refillPrim() error {
	ok, err := vm.refill()
	if err != nil {
		return err
	}
	if err := vm.d.need("REFILL", 0, 1); err != nil {
		return err
	}
	vm.d.push(flag(ok))
	return nil
}

// evaluate ( i*x c-addr u -- j*x )
func (vm *VM) evaluatePrim() error {
	if err := vm.d.need("EVALUATE", 2, 0); err != nil {
		return err
	}
	u := vm.d.pop()
	addr := vm.d.pop()
	if _, err := vm.bytesAt("EVALUATE", addr, u); err != nil {
		return err
	}
	savedAddr := vm.cellAt(addrSource)
	savedLen := vm.cellAt(addrSourceLen)
	savedIn := vm.cellAt(addrIn)
	vm.setCell(addrSource, addr)
	vm.setCell(addrSourceLen, u)
	vm.setCell(addrIn, 0)
	err := vm.interpret()
	vm.setCell(addrSource, savedAddr)
	vm.setCell(addrSourceLen, savedLen)
	vm.setCell(addrIn, savedIn)
	return err
}

// quit ( -- )
//
// The top-level loop: read a line, interpret it, prompt.  A
// caught abort resets both stacks and the state and resumes; end
// of input ends the session.
func (vm *VM) quit() error {
	if vm.inQuit {
		return abort("QUIT: nested invocation")
	}
	vm.inQuit = true
	defer func() { vm.inQuit = false }()
	vm.r.clear()
	vm.setCompiling(false)
	for {
		ok, err := vm.refill()
		if err == nil {
			if !ok {
				if err := vm.print("\n"); err != nil {
					return err
				}
				return Bye
			}
			err = vm.interpret()
		}
		var a *Abort
		switch {
		case err == nil:
		case errors.As(err, &a):
			if a.Msg != "" {
				if err := vm.print("<<< Error: " + a.Msg + " >>>\n"); err != nil {
					return err
				}
			}
			vm.d.clear()
			vm.r.clear()
			vm.setCompiling(false)
		default:
			return err
		}
		if !vm.compiling() {
			if err := vm.print("  ok\n"); err != nil {
				return err
			}
		}
	}
}
