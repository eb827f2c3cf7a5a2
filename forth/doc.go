// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

// Package forth implements an interactive FORTH engine.
//
// The engine keeps two bounded cell stacks, a byte-addressed
// data space and an append-only dictionary.  A dictionary entry
// is either a host primitive or one of three synthetic kinds
// dispatched by the inner interpreter:
//
//	primitive	run the host function
//	colon		run the cell sequence at the entry's body
//	create		push the entry's data-field address
//	does		push the data-field address, then run the
//			DOES> clause
//
// A compiled body is a sequence of execution tokens (dictionary
// indices) in data space, terminated by the token of EXIT.
// Literals are compiled as the token of (literal) followed by
// the value; control flow uses (branch) and (0branch) with
// inline absolute targets.
//
// The engine state cells live inside data space at fixed
// offsets, so STATE, BASE and >IN push ordinary checked
// addresses.  All addresses visible to FORTH code are offsets
// into data space; no host pointers escape.
//
// Only the kernel primitives are defined in Go.  The rest of
// the language (ROT, NIP, TUCK, VARIABLE, CONSTANT, tick,
// POSTPONE, the control-flow words, comments) is bootstrapped
// from FORTH source evaluated at reset.
//
// Kernel primitives, as described in DPANS unless commented:
//
//	EXIT EXECUTE
//	(literal) (branch) (0branch) (does) (sliteral) (.") (abort")
//	DROP DUP ?DUP OVER SWAP PICK ROLL DEPTH
//	>R R> R@ 2>R 2R> 2R@
//	@ ! C@ C! +!
//	HERE ALIGN ALIGNED ALLOT , C, COUNT UNUSED CELL+ CELLS
//	DUMP		\ hex dump of data space
//	+ - * / /MOD MOD NEGATE
//	AND OR XOR INVERT LSHIFT RSHIFT
//	= < >
//	EMIT KEY TYPE . U. .S
//	#ARG ARG	\ command-line argument access
//	BYE MS TIME&DATE
//	UTCTIME&DATE	\ TIME&DATE in UTC
//	STATE BASE >IN SOURCE
//	FIND WORDS WORD PARSE >NUM >UNUM
//	CREATE : ; LITERAL IMMEDIATE HIDDEN DOES> [ ]
//	S" ." ABORT" ABORT
//	REFILL INTERPRET EVALUATE QUIT
package forth
