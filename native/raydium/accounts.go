package raydium

import (
	"errors"
	"fmt"

	"vectai/native/common"
)

var (
	// ErrInvalidVenueProgram indicates the supplied AMM program id is not the
	// whitelisted Raydium program.
	ErrInvalidVenueProgram = errors.New("raydium: invalid amm program")
	// ErrInvalidPool indicates a pool or market account did not match the
	// whitelisted pool identity. Security-critical: the call aborts before any
	// token movement.
	ErrInvalidPool = errors.New("raydium: pool account mismatch")
	// ErrIncompleteAccounts indicates a required account reference was zero.
	ErrIncompleteAccounts = errors.New("raydium: incomplete account set")
)

// AccountMeta is a positional account reference inside a venue instruction.
type AccountMeta struct {
	Key      common.Address
	Signer   bool
	Writable bool
}

// SwapAccounts carries every account the Raydium AMM swap entry point
// consumes. Field order matches the wire contract; reordering breaks the call.
type SwapAccounts struct {
	TokenProgram    common.Address
	Amm             common.Address
	AmmAuthority    common.Address
	AmmOpenOrders   common.Address
	AmmTargetOrders common.Address
	PoolCoinVault   common.Address
	PoolPcVault     common.Address
	MarketProgram   common.Address
	Market          common.Address
	MarketBids      common.Address
	MarketAsks      common.Address
	MarketEventQ    common.Address
	MarketCoinVault common.Address
	MarketPcVault   common.Address
	MarketVaultSign common.Address
	UserSource      common.Address
	UserDestination common.Address
	UserAuthority   common.Address
}

// Metas renders the 18 account references in the order the AMM expects.
func (a SwapAccounts) Metas() []AccountMeta {
	return []AccountMeta{
		{Key: a.TokenProgram},
		{Key: a.Amm, Writable: true},
		{Key: a.AmmAuthority},
		{Key: a.AmmOpenOrders, Writable: true},
		{Key: a.AmmTargetOrders, Writable: true},
		{Key: a.PoolCoinVault, Writable: true},
		{Key: a.PoolPcVault, Writable: true},
		{Key: a.MarketProgram},
		{Key: a.Market, Writable: true},
		{Key: a.MarketBids, Writable: true},
		{Key: a.MarketAsks, Writable: true},
		{Key: a.MarketEventQ, Writable: true},
		{Key: a.MarketCoinVault, Writable: true},
		{Key: a.MarketPcVault, Writable: true},
		{Key: a.MarketVaultSign},
		{Key: a.UserSource, Writable: true},
		{Key: a.UserDestination, Writable: true},
		{Key: a.UserAuthority, Signer: true},
	}
}

// complete reports whether every reference is populated.
func (a SwapAccounts) complete() error {
	for i, meta := range a.Metas() {
		if meta.Key.IsZero() {
			return fmt.Errorf("%w: position %d", ErrIncompleteAccounts, i)
		}
	}
	return nil
}

// PoolConfig is the whitelisted venue identity a deployment trusts. It is
// injected from configuration and compared account-by-account at call time.
type PoolConfig struct {
	AmmProgram      common.Address
	Amm             common.Address
	AmmAuthority    common.Address
	AmmOpenOrders   common.Address
	AmmTargetOrders common.Address
	PoolCoinVault   common.Address
	PoolPcVault     common.Address
	MarketProgram   common.Address
	Market          common.Address
	MarketBids      common.Address
	MarketAsks      common.Address
	MarketEventQ    common.Address
	MarketCoinVault common.Address
	MarketPcVault   common.Address
	MarketVaultSign common.Address
}

// ValidateProgram checks the supplied program id against the whitelist.
func (c PoolConfig) ValidateProgram(program common.Address) error {
	if program != c.AmmProgram {
		return fmt.Errorf("%w: %s", ErrInvalidVenueProgram, program)
	}
	return nil
}

// ValidateAccounts verifies every pool and market account against the
// whitelisted identity. Any mismatch aborts the swap.
func (c PoolConfig) ValidateAccounts(accounts SwapAccounts) error {
	if err := accounts.complete(); err != nil {
		return err
	}
	checks := []struct {
		name string
		got  common.Address
		want common.Address
	}{
		{"amm", accounts.Amm, c.Amm},
		{"amm authority", accounts.AmmAuthority, c.AmmAuthority},
		{"amm open orders", accounts.AmmOpenOrders, c.AmmOpenOrders},
		{"amm target orders", accounts.AmmTargetOrders, c.AmmTargetOrders},
		{"pool coin vault", accounts.PoolCoinVault, c.PoolCoinVault},
		{"pool pc vault", accounts.PoolPcVault, c.PoolPcVault},
		{"market program", accounts.MarketProgram, c.MarketProgram},
		{"market", accounts.Market, c.Market},
		{"market bids", accounts.MarketBids, c.MarketBids},
		{"market asks", accounts.MarketAsks, c.MarketAsks},
		{"market event queue", accounts.MarketEventQ, c.MarketEventQ},
		{"market coin vault", accounts.MarketCoinVault, c.MarketCoinVault},
		{"market pc vault", accounts.MarketPcVault, c.MarketPcVault},
		{"market vault signer", accounts.MarketVaultSign, c.MarketVaultSign},
	}
	for _, check := range checks {
		if check.got != check.want {
			return fmt.Errorf("%w: %s", ErrInvalidPool, check.name)
		}
	}
	return nil
}
