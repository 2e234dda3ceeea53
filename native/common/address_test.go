package common

import (
	"errors"
	"math"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	var raw [AddressLength]byte
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	addr := BytesToAddress(raw[:])
	encoded := addr.String()
	parsed, err := ParseAddress(encoded)
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}
	if !parsed.Equal(addr) {
		t.Fatalf("round trip mismatch: %s != %s", parsed, addr)
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	cases := []string{"", "   ", "abc", "0OIl"}
	for _, input := range cases {
		if _, err := ParseAddress(input); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("expected ErrInvalidAddress for %q, got %v", input, err)
		}
	}
}

func TestAddressIsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Fatal("zero address should report IsZero")
	}
	if BytesToAddress([]byte{1}).IsZero() {
		t.Fatal("non-zero address reported IsZero")
	}
}

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(math.MaxUint64-1, 1)
	if err != nil {
		t.Fatalf("unexpected overflow: %v", err)
	}
	if sum != math.MaxUint64 {
		t.Fatalf("unexpected sum: %d", sum)
	}
	if _, err := CheckedAdd(math.MaxUint64, 1); !errors.Is(err, ErrCounterOverflow) {
		t.Fatalf("expected ErrCounterOverflow, got %v", err)
	}
}

func TestCheckedMul(t *testing.T) {
	product, err := CheckedMul(1<<32, 1<<31)
	if err != nil {
		t.Fatalf("unexpected overflow: %v", err)
	}
	if product != 1<<63 {
		t.Fatalf("unexpected product: %d", product)
	}
	if _, err := CheckedMul(1<<32, 1<<32); !errors.Is(err, ErrCounterOverflow) {
		t.Fatalf("expected ErrCounterOverflow, got %v", err)
	}
	if product, err := CheckedMul(0, math.MaxUint64); err != nil || product != 0 {
		t.Fatalf("zero multiplicand should not overflow: %d %v", product, err)
	}
}
