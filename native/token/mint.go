package token

import (
	"fmt"
	"log/slog"

	"vectai/native/common"
	"vectai/observability/metrics"
	"vectai/storage"
)

// Guard enforces the supply cap and pause switch around external issuance.
// Every mutating operation follows checks-effects-interactions: validate,
// commit the counter, then call the token program; a failed external call
// reverts the counter through the journal.
type Guard struct {
	db     storage.Database
	store  *Store
	minter Minter
	xfer   Transferrer
	admin  common.Address
	logger *slog.Logger
}

// NewGuard constructs a mint guard. admin is the identity allowed to pause
// and unpause issuance.
func NewGuard(db storage.Database, minter Minter, xfer Transferrer, admin common.Address, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		db:     db,
		store:  NewStore(db),
		minter: minter,
		xfer:   xfer,
		admin:  admin,
		logger: logger,
	}
}

// Initialize creates the supply record for a mint. Re-initialising an
// existing mint is rejected.
func (g *Guard) Initialize(mint, authority common.Address, decimals uint8, maxSupply uint64) (*SupplyState, error) {
	if g == nil {
		return nil, fmt.Errorf("token: guard not initialised")
	}
	if maxSupply == 0 {
		return nil, fmt.Errorf("%w: max supply must be positive", ErrInvalidAmount)
	}
	if authority.IsZero() {
		return nil, fmt.Errorf("%w: authority required", ErrInvalidMintAuthority)
	}
	if _, exists, err := g.store.Get(mint); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrTokenExists
	}
	state := &SupplyState{
		Mint:          mint,
		MintAuthority: authority,
		MaxSupply:     maxSupply,
		Decimals:      decimals,
	}
	if err := g.store.Put(state); err != nil {
		return nil, err
	}
	g.logger.Info("token initialised",
		slog.String("mint", mint.String()),
		slog.Uint64("max_supply", maxSupply),
		slog.Int("decimals", int(decimals)))
	return state.Clone(), nil
}

// Mint authorises issuance of amount to recipient and performs the external
// mint call. Returns the new cumulative minted total.
func (g *Guard) Mint(caller, mint, recipient common.Address, amount uint64) (uint64, error) {
	if g == nil {
		return 0, fmt.Errorf("token: guard not initialised")
	}
	// Checks.
	if amount == 0 {
		metrics.MintRejected("invalid_amount")
		return 0, ErrInvalidAmount
	}
	state, exists, err := g.store.Get(mint)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrTokenNotFound
	}
	if caller != state.MintAuthority {
		metrics.MintRejected("unauthorized")
		return 0, ErrInvalidMintAuthority
	}
	if state.Paused {
		metrics.MintRejected("paused")
		return 0, ErrTokenPaused
	}
	newTotal, err := common.CheckedAdd(state.Minted, amount)
	if err != nil {
		metrics.MintRejected("overflow")
		return 0, fmt.Errorf("%w: minted %d + %d", ErrMathOverflow, state.Minted, amount)
	}
	if newTotal > state.MaxSupply {
		metrics.MintRejected("exceeds_max_supply")
		return 0, fmt.Errorf("%w: %d exceeds cap %d", ErrInsufficientSupply, newTotal, state.MaxSupply)
	}

	// Effects before the external interaction.
	journal := storage.NewJournal(g.db)
	state.Minted = newTotal
	if err := g.store.WithDB(journal).Put(state); err != nil {
		revertJournal(journal, g.logger)
		return 0, err
	}

	// Interaction.
	if g.minter != nil {
		if err := g.minter.MintTo(mint, recipient, amount); err != nil {
			revertJournal(journal, g.logger)
			metrics.MintRejected("mint_call_failed")
			return 0, fmt.Errorf("token: external mint: %w", err)
		}
	}
	journal.Commit()
	metrics.MintAuthorized()
	g.logger.Info("tokens minted",
		slog.String("mint", mint.String()),
		slog.String("recipient", recipient.String()),
		slog.Uint64("amount", amount),
		slog.Uint64("minted_total", newTotal))
	return newTotal, nil
}

// Transfer validates and forwards a token transfer to the external token
// program. The token program enforces ownership and balances.
func (g *Guard) Transfer(from, to, authority common.Address, amount uint64) error {
	if g == nil {
		return fmt.Errorf("token: guard not initialised")
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if g.xfer == nil {
		return fmt.Errorf("token: transferrer not configured")
	}
	return g.xfer.Transfer(from, to, authority, amount)
}

// Pause disables issuance for the mint. Pausing an already-paused mint is a
// successful no-op.
func (g *Guard) Pause(caller, mint common.Address) error {
	return g.setPaused(caller, mint, true)
}

// Unpause re-enables issuance for the mint; idempotent like Pause.
func (g *Guard) Unpause(caller, mint common.Address) error {
	return g.setPaused(caller, mint, false)
}

func (g *Guard) setPaused(caller, mint common.Address, paused bool) error {
	if g == nil {
		return fmt.Errorf("token: guard not initialised")
	}
	if caller != g.admin {
		return ErrUnauthorizedAdmin
	}
	state, exists, err := g.store.Get(mint)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTokenNotFound
	}
	if state.Paused == paused {
		return nil
	}
	state.Paused = paused
	if err := g.store.Put(state); err != nil {
		return err
	}
	g.logger.Info("token pause state changed",
		slog.String("mint", mint.String()),
		slog.Bool("paused", paused))
	return nil
}

// Supply returns the current supply record for a mint.
func (g *Guard) Supply(mint common.Address) (*SupplyState, error) {
	if g == nil {
		return nil, fmt.Errorf("token: guard not initialised")
	}
	state, exists, err := g.store.Get(mint)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenNotFound
	}
	return state.Clone(), nil
}

func revertJournal(journal *storage.Journal, logger *slog.Logger) {
	if err := journal.Revert(); err != nil {
		logger.Error("journal revert failed", slog.Any("error", err))
	}
}
