package trader

import (
	"errors"

	"vectai/native/common"
	"vectai/native/oracle"
)

var (
	// ErrUnauthorized indicates the caller does not own the guarded account.
	ErrUnauthorized = errors.New("trader: unauthorized")
	// ErrTraderInactive indicates the guarded account has been deactivated.
	ErrTraderInactive = errors.New("trader: inactive")
	// ErrRateLimited indicates the per-account cooldown has not elapsed.
	ErrRateLimited = errors.New("trader: rate limited")
	// ErrInvalidTokenAccount indicates the source token account is not owned
	// by (or delegated to) the caller.
	ErrInvalidTokenAccount = errors.New("trader: invalid token account")
	// ErrInsufficientBalance indicates the source account cannot fund the swap.
	ErrInsufficientBalance = errors.New("trader: insufficient balance")
	// ErrInvalidInput indicates an initialisation or policy parameter outside
	// its accepted domain.
	ErrInvalidInput = errors.New("trader: invalid input")
	// ErrMathOverflow indicates counter or amount arithmetic would wrap.
	ErrMathOverflow = errors.New("trader: math overflow")
	// ErrTraderNotFound indicates no guarded account exists for the authority.
	ErrTraderNotFound = errors.New("trader: account not found")
	// ErrTraderExists indicates the authority already initialised an account.
	ErrTraderExists = errors.New("trader: account already initialised")
	// ErrUnauthorizedAdmin indicates the caller is not the configured admin.
	ErrUnauthorizedAdmin = errors.New("trader: unauthorized admin")
)

// MaxSwapAmount caps the configured per-swap input amount.
const MaxSwapAmount uint64 = 1_000_000_000_000

// Account is the persistent guarded record for one trading authority.
// LastSwapTime is monotonically non-decreasing; TotalSwaps only grows and the
// operation fails rather than wrapping the counter.
type Account struct {
	Authority      common.Address
	PriceThreshold int64
	SwapAmount     uint64
	SlippageBps    uint16
	TotalSwaps     uint64
	LastSwapTime   int64
	Active         bool
}

// Clone returns a copy of the record.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// TokenAccount is the caller-side view of the source token account checked
// before a swap. The host supplies it alongside the venue accounts.
type TokenAccount struct {
	Owner    common.Address
	Delegate *common.Address
	Balance  uint64
}

// authorisedFor reports whether the supplied authority may spend from the
// account, either as owner or approved delegate.
func (t TokenAccount) authorisedFor(authority common.Address) bool {
	if t.Owner == authority {
		return true
	}
	return t.Delegate != nil && *t.Delegate == authority
}

// SwapResult is returned to the caller after a guarded swap attempt. It is
// transient and never persisted. Executed is false when the policy was not
// met, which is a successful no-op.
type SwapResult struct {
	Receipt         string
	Executed        bool
	Condition       oracle.Condition
	InputAmount     uint64
	ExpectedOut     uint64
	MinimumOut      uint64
	ExchangeRateBps uint64
	SourcePrice     int64
}
