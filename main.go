// Copyright 2011 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"

	"goforth/forth"
)

// lineEditor adapts a readline instance to forth.LineReader,
// discarding an interrupted line and reading the next one.
type lineEditor struct {
	rl *readline.Instance
}

func (l lineEditor) ReadLine() (string, error) {
	for {
		s, err := l.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		return s, err
	}
}

func main() {
	opts := []forth.Option{
		forth.WithInput(os.Stdin),
		forth.WithOutput(os.Stdout),
	}
	if readline.DefaultIsTerminal() {
		rl, err := readline.New("")
		if err == nil {
			defer rl.Close()
			opts = append(opts, forth.WithLineReader(lineEditor{rl}))
		}
	}
	if len(os.Args) == 1 {
		fmt.Printf("goforth %s (%d-bit cells)\n", forth.Version, forth.CellBits)
	}
	os.Exit(forth.New(opts...).Run(os.Args))
}
