// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package floop

// DefaultPrelude contains the standard procedures that are
// automatically loaded unless -no-prelude is specified. Programs may
// shadow any of them with their own DEFINE.
const DefaultPrelude = `
DEFINE PROCEDURE "DOUBLE" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X + X;
BLOCK 0: END

DEFINE PROCEDURE "SQUARE" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X * X;
BLOCK 0: END

DEFINE PROCEDURE "MAX" [A, B]:
BLOCK 0: BEGIN
	OUTPUT <= A;
	IF B > A, THEN:
	BLOCK 1: BEGIN
		OUTPUT <= B;
	BLOCK 1: END
BLOCK 0: END

DEFINE PROCEDURE "MIN" [A, B]:
BLOCK 0: BEGIN
	OUTPUT <= A;
	IF B < A, THEN:
	BLOCK 1: BEGIN
		OUTPUT <= B;
	BLOCK 1: END
BLOCK 0: END

# Truncated subtraction: MINUS(A, B) is A - B, floored at zero.
DEFINE PROCEDURE "MINUS" [A, B]:
BLOCK 0: BEGIN
	OUTPUT <= 0;
	IF A > B, THEN:
	BLOCK 1: BEGIN
		OUTPUT <= A - B;
	BLOCK 1: END
BLOCK 0: END

DEFINE PROCEDURE "REMAINDER" [A, B]:
BLOCK 0: BEGIN
	OUTPUT <= A - (A / B) * B;
BLOCK 0: END

DEFINE PROCEDURE "EVEN?" [X]:
BLOCK 0: BEGIN
	OUTPUT <= (X / 2) * 2 = X;
BLOCK 0: END
`
