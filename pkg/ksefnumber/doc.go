/*
Package ksefnumber validates the structural checksum of KSeF invoice
numbers.

A KSeF number is exactly 35 characters: a 32-character data segment
followed by a two-character CRC-8 checksum rendered as uppercase hex
(polynomial 0x07, initial value 0x00, no final XOR). The 33rd character
is not examined by the validator; this matches the behavior of the
remote service and is preserved deliberately, since compatibility
depends on exact agreement rather than on what a 32+2 layout would
suggest.
*/
package ksefnumber
