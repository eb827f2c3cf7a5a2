// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

import (
	"errors"
	"fmt"
)

// An Abort unwinds the interpreter to the QUIT loop, carrying a
// message for the user.  Every runtime check raises one; ABORT
// raises one with an empty message.  The QUIT loop resets both
// stacks and the interpreter state; the raising site does not.
type Abort struct {
	Msg string
}

func (a *Abort) Error() string {
	if a.Msg == "" {
		return "aborted"
	}
	return a.Msg
}

func abort(msg string) error {
	return &Abort{Msg: msg}
}

func abortf(format string, args ...interface{}) error {
	return &Abort{Msg: fmt.Sprintf(format, args...)}
}

// Bye ends the session.  It is raised by the BYE word and by
// QUIT at end of input, and unwinds past the QUIT loop.
var Bye = errors.New("bye")
