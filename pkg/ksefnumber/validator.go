package ksefnumber

import (
	"fmt"
	"strings"
)

// Length is the fixed size of a KSeF number in characters.
const Length = 35

const (
	dataLength     = 32
	checksumOffset = 33
)

// IsValid checks the structural checksum of a KSeF number. It returns
// false with a descriptive message for empty and wrong-length input, and
// false with an empty message when the checksum itself does not match.
func IsValid(number string) (bool, string) {
	if strings.TrimSpace(number) == "" {
		return false, "KSeF number must not be empty"
	}
	runes := []rune(number)
	if len(runes) != Length {
		return false, fmt.Sprintf("KSeF number must be exactly %d characters long", Length)
	}

	data := string(runes[:dataLength])
	checksum := string(runes[checksumOffset:])
	if Checksum(data) != checksum {
		return false, ""
	}
	return true, ""
}

// Checksum computes the CRC-8 of the UTF-8 bytes of data and renders it
// as two uppercase hex digits.
func Checksum(data string) string {
	return fmt.Sprintf("%02X", crc8([]byte(data)))
}

// crc8 implements CRC-8 with polynomial 0x07, initial value 0x00 and no
// final XOR.
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
