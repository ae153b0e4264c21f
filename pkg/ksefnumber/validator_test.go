package ksefnumber

import (
	"strings"
	"testing"
)

// buildNumber assembles a 35-character number from 32 data characters, a
// filler 33rd character, and the checksum of the data segment.
func buildNumber(data string, filler string) string {
	return data + filler + Checksum(data)
}

func TestIsValidAcceptsCorrectChecksum(t *testing.T) {
	data := "1111111111-20240101-ABCDEF123456"
	if len(data) != 32 {
		t.Fatalf("test data segment must be 32 characters, got %d", len(data))
	}

	number := buildNumber(data, "-")
	if len(number) != Length {
		t.Fatalf("expected %d characters, got %d", Length, len(number))
	}

	ok, msg := IsValid(number)
	if !ok {
		t.Errorf("expected valid number, got message %q", msg)
	}
}

func TestIsValidIgnoresCharacter33(t *testing.T) {
	data := "5265877635-20230908-AAAABBBBCCCC"
	for _, filler := range []string{"-", "X", "0", "?"} {
		ok, msg := IsValid(buildNumber(data, filler))
		if !ok {
			t.Errorf("filler %q: expected valid, got message %q", filler, msg)
		}
	}
}

func TestIsValidRejectsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		ok, msg := IsValid(input)
		if ok {
			t.Errorf("input %q: expected invalid", input)
		}
		if msg == "" {
			t.Errorf("input %q: expected a descriptive message", input)
		}
	}
}

func TestIsValidRejectsWrongLength(t *testing.T) {
	for _, input := range []string{
		"short",
		strings.Repeat("1", 34),
		strings.Repeat("1", 36),
	} {
		ok, msg := IsValid(input)
		if ok {
			t.Errorf("input %q: expected invalid", input)
		}
		if !strings.Contains(msg, "35") {
			t.Errorf("input %q: expected message naming the required length, got %q", input, msg)
		}
	}
}

func TestIsValidChecksumMismatchHasEmptyMessage(t *testing.T) {
	data := "1111111111-20240101-ABCDEF123456"
	good := Checksum(data)
	bad := "00"
	if bad == good {
		bad = "01"
	}

	ok, msg := IsValid(data + "-" + bad)
	if ok {
		t.Error("expected invalid for checksum mismatch")
	}
	if msg != "" {
		t.Errorf("checksum mismatch must carry an empty message, got %q", msg)
	}
}

func TestChecksumIsDeterministicUppercaseHex(t *testing.T) {
	sum := Checksum("abc")
	if len(sum) != 2 {
		t.Fatalf("expected two hex digits, got %q", sum)
	}
	if sum != strings.ToUpper(sum) {
		t.Errorf("expected uppercase hex, got %q", sum)
	}
	if sum != Checksum("abc") {
		t.Error("checksum must be deterministic")
	}
}

func TestCRC8KnownVector(t *testing.T) {
	// CRC-8/SMBUS ("123456789" -> 0xF4) uses poly 0x07, init 0x00, no XOR out.
	if got := crc8([]byte("123456789")); got != 0xF4 {
		t.Errorf("expected 0xF4, got 0x%02X", got)
	}
}
