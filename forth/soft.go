// Copyright 2011, 2013 Vadim Vygonets. All rights reserved.
// Use of this source code is governed by the Bugroff
// license that can be found in the LICENSE file.

package forth

// The bootstrap source defines the non-primitive half of the
// language.  Reset evaluates each line in order, right after
// primitive registration, so later lines may use earlier ones.
// BASE is ten while these run.
var bootstrap = []string{
	": 1+  1 + ;",
	": 1-  1 - ;",
	": CHAR+  1+ ;",
	": NIP  SWAP DROP ;",
	": TUCK  SWAP OVER ;",
	": ROT  >R SWAP R> SWAP ;",
	": 2DROP  DROP DROP ;",
	": 2DUP  OVER OVER ;",
	": 2OVER  3 PICK 3 PICK ;",
	": 2SWAP  ROT >R ROT R> ;",

	": FALSE  0 ;",
	": TRUE  0 INVERT ;",
	": BL  32 ;",
	": SPACE  BL EMIT ;",
	": CR  10 EMIT ;",

	": <>  = INVERT ;",
	": 0=  0 = ;",
	": 0<  0 < ;",
	": 0>  0 > ;",
	": 0<>  0= INVERT ;",
	": 2*  1 LSHIFT ;",
	": 2/  1 RSHIFT ;",

	": DECIMAL  10 BASE ! ;",
	": HEX  16 BASE ! ;",

	": '  BL WORD FIND DROP ;",
	": POSTPONE  ' , ; IMMEDIATE",
	": [']  ' POSTPONE LITERAL ; IMMEDIATE",
	": CHAR  BL WORD CHAR+ C@ ;",
	": [CHAR]  CHAR POSTPONE LITERAL ; IMMEDIATE",
	": (  [CHAR] ) PARSE 2DROP ; IMMEDIATE",
	": \\  SOURCE NIP >IN ! ; IMMEDIATE",

	": VARIABLE  CREATE 0 , ;",

	": AHEAD  ['] (branch) , HERE 0 , ; IMMEDIATE",
	": IF  ['] (0branch) , HERE 0 , ; IMMEDIATE",
	": THEN  HERE SWAP ! ; IMMEDIATE",
	": ELSE  POSTPONE AHEAD SWAP POSTPONE THEN ; IMMEDIATE",
	": BEGIN  HERE ; IMMEDIATE",
	": UNTIL  ['] (0branch) , , ; IMMEDIATE",
	": AGAIN  ['] (branch) , , ; IMMEDIATE",
	": WHILE  POSTPONE IF SWAP ; IMMEDIATE",
	": REPEAT  POSTPONE AGAIN POSTPONE THEN ; IMMEDIATE",

	// CONSTANT parses its name when it runs.  Inside a
	// definition that is at compile time, so the child's data
	// cell is embedded in the body under construction and must
	// be branched over; the defining word stores the value at
	// its own run time.
	": CONSTANT  STATE @ IF" +
		"  POSTPONE AHEAD  CREATE HERE 0 ,  SWAP POSTPONE THEN" +
		"  POSTPONE LITERAL  ['] ! ," +
		"  ELSE  CREATE ,  THEN" +
		"  DOES> @ ; IMMEDIATE",
}
