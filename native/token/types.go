package token

import (
	"errors"

	"vectai/native/common"
)

var (
	// ErrInvalidAmount indicates a zero mint or transfer request.
	ErrInvalidAmount = errors.New("token: invalid amount")
	// ErrInvalidMintAuthority indicates the caller does not hold the mint authority.
	ErrInvalidMintAuthority = errors.New("token: invalid mint authority")
	// ErrInsufficientSupply indicates the request would breach the supply cap.
	ErrInsufficientSupply = errors.New("token: insufficient supply")
	// ErrMathOverflow indicates the minted counter would wrap.
	ErrMathOverflow = errors.New("token: math overflow")
	// ErrTokenPaused indicates minting is administratively disabled.
	ErrTokenPaused = errors.New("token: paused")
	// ErrUnauthorizedAdmin indicates the caller is not the configured admin.
	ErrUnauthorizedAdmin = errors.New("token: unauthorized admin")
	// ErrTokenNotFound indicates no supply record exists for the mint.
	ErrTokenNotFound = errors.New("token: not found")
	// ErrTokenExists indicates the mint has already been initialised.
	ErrTokenExists = errors.New("token: already initialised")
)

// SupplyState is the persistent record guarding issuance for one mint.
// Minted never exceeds MaxSupply; a violating request is rejected, never
// clamped.
type SupplyState struct {
	Mint          common.Address
	MintAuthority common.Address
	MaxSupply     uint64
	Minted        uint64
	Decimals      uint8
	Paused        bool
}

// Remaining reports the issuance headroom under the cap.
func (s SupplyState) Remaining() uint64 {
	if s.Minted >= s.MaxSupply {
		return 0
	}
	return s.MaxSupply - s.Minted
}

// Clone returns a copy of the record.
func (s *SupplyState) Clone() *SupplyState {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// Minter performs the external token issuance once the guard has committed
// its accounting. Implementations call into the token program; tests
// substitute fakes.
type Minter interface {
	MintTo(mint, recipient common.Address, amount uint64) error
}

// Transferrer moves tokens between accounts through the external token
// program.
type Transferrer interface {
	Transfer(from, to, authority common.Address, amount uint64) error
}
