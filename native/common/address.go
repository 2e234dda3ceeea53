package common

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

// AddressLength is the byte length of an on-chain account address.
const AddressLength = 32

// ErrInvalidAddress indicates the supplied text could not be decoded into a
// 32-byte account address.
var ErrInvalidAddress = errors.New("common: invalid address")

// Address identifies an on-chain account. Addresses render as base58 in logs,
// configuration, and storage keys.
type Address [AddressLength]byte

// ParseAddress decodes a base58-encoded account address.
func ParseAddress(s string) (Address, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Address{}, ErrInvalidAddress
	}
	decoded := base58.Decode(trimmed)
	if len(decoded) != AddressLength {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	var addr Address
	copy(addr[:], decoded)
	return addr, nil
}

// MustParseAddress decodes a base58 address and panics on failure. Intended for
// tests and package-level fixtures only.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress copies the supplied bytes into an address, truncating or
// left-padding as needed.
func BytesToAddress(b []byte) Address {
	var addr Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(addr[AddressLength-len(b):], b)
	return addr
}

// String renders the address as base58.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	return append([]byte{}, a[:]...)
}

// IsZero reports whether the address is the all-zero value.
func (a Address) IsZero() bool {
	return bytes.Equal(a[:], make([]byte, AddressLength))
}

// Equal reports whether two addresses are identical.
func (a Address) Equal(other Address) bool {
	return a == other
}
