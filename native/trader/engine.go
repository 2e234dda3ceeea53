package trader

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vectai/native/common"
	"vectai/native/oracle"
	"vectai/native/raydium"
	"vectai/observability/metrics"
	"vectai/storage"
)

// ModuleName identifies the trader module to the pause switchboard.
const ModuleName = "trader"

// Engine is the guarded swap executor. It composes the oracle validator, the
// policy evaluator, the rate limiter and the venue whitelist, and only after
// every check passes does it compose and submit the swap instruction. Counter
// updates are journaled so a failed venue call leaves no trace.
type Engine struct {
	db        storage.Database
	store     *Store
	validator *oracle.Validator
	limiter   RateLimiter
	pool      raydium.PoolConfig
	invoker   raydium.Invoker
	reserves  raydium.ReserveReader
	pauses    common.PauseView
	admin     common.Address
	clock     func() time.Time
	logger    *slog.Logger
}

// EngineOption customises optional engine collaborators.
type EngineOption func(*Engine)

// WithReserveReader wires a live reserve source so quotes use the constant
// product formula instead of the one-to-one placeholder.
func WithReserveReader(reader raydium.ReserveReader) EngineOption {
	return func(e *Engine) { e.reserves = reader }
}

// WithPauseView wires the module pause switchboard.
func WithPauseView(view common.PauseView) EngineOption {
	return func(e *Engine) { e.pauses = view }
}

// WithCooldown overrides the per-account cooldown window.
func WithCooldown(window time.Duration) EngineOption {
	return func(e *Engine) { e.limiter = NewRateLimiter(window) }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine constructs the executor. admin is the identity allowed to flip
// accounts active or inactive.
func NewEngine(db storage.Database, validator *oracle.Validator, pool raydium.PoolConfig, invoker raydium.Invoker, admin common.Address, opts ...EngineOption) *Engine {
	e := &Engine{
		db:        db,
		store:     NewStore(db),
		validator: validator,
		limiter:   NewRateLimiter(DefaultCooldown),
		pool:      pool,
		invoker:   invoker,
		admin:     admin,
		clock:     time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetClock overrides the time source, enabling deterministic unit tests.
func (e *Engine) SetClock(clock func() time.Time) {
	if e == nil || clock == nil {
		return
	}
	e.clock = clock
}

// Initialize creates the guarded record for an authority. The account starts
// active with zeroed counters. Re-initialising is rejected.
func (e *Engine) Initialize(authority common.Address, priceThreshold int64, swapAmount uint64, slippageBps uint16) (*Account, error) {
	if e == nil {
		return nil, fmt.Errorf("trader: engine not initialised")
	}
	if authority.IsZero() {
		return nil, fmt.Errorf("%w: authority required", ErrInvalidInput)
	}
	if priceThreshold <= 0 || priceThreshold >= oracle.MaxPriceMantissa {
		return nil, fmt.Errorf("%w: price threshold %d", ErrInvalidInput, priceThreshold)
	}
	if swapAmount == 0 || swapAmount > MaxSwapAmount {
		return nil, fmt.Errorf("%w: swap amount %d", ErrInvalidInput, swapAmount)
	}
	if uint64(slippageBps) > raydium.MaxSlippageBps {
		return nil, fmt.Errorf("%w: slippage %d bps", ErrInvalidInput, slippageBps)
	}
	if _, exists, err := e.store.Get(authority); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrTraderExists
	}
	account := &Account{
		Authority:      authority,
		PriceThreshold: priceThreshold,
		SwapAmount:     swapAmount,
		SlippageBps:    slippageBps,
		Active:         true,
	}
	if err := e.store.Put(account); err != nil {
		return nil, err
	}
	e.logger.Info("trader initialised",
		slog.String("authority", authority.String()),
		slog.Int64("price_threshold", priceThreshold),
		slog.Uint64("swap_amount", swapAmount),
		slog.Int("slippage_bps", int(slippageBps)))
	return account.Clone(), nil
}

// Account returns the guarded record for an authority.
func (e *Engine) Account(authority common.Address) (*Account, error) {
	if e == nil {
		return nil, fmt.Errorf("trader: engine not initialised")
	}
	account, exists, err := e.store.Get(authority)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTraderNotFound
	}
	return account.Clone(), nil
}

// SetActive flips the account's execution switch. Only the configured admin
// may call it; setting the current value is a successful no-op.
func (e *Engine) SetActive(caller, authority common.Address, active bool) error {
	if e == nil {
		return fmt.Errorf("trader: engine not initialised")
	}
	if caller != e.admin {
		return ErrUnauthorizedAdmin
	}
	account, exists, err := e.store.Get(authority)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTraderNotFound
	}
	if account.Active == active {
		return nil
	}
	account.Active = active
	if err := e.store.Put(account); err != nil {
		return err
	}
	e.logger.Info("trader active state changed",
		slog.String("authority", authority.String()),
		slog.Bool("active", active))
	return nil
}

// ExecuteParams carries the per-call inputs for a guarded swap. Program and
// Accounts identify the venue call the host wants to make; both are compared
// against the whitelist before any instruction is composed.
type ExecuteParams struct {
	Caller   common.Address
	Trader   common.Address
	Update   *oracle.PriceUpdate
	Program  common.Address
	Accounts raydium.SwapAccounts
	Source   TokenAccount
}

// ExecuteConditionalSwap runs the threshold policy stored on the account: the
// swap executes only when the validated price strictly exceeds the configured
// threshold. A price at or below the threshold returns Executed false with no
// state change.
func (e *Engine) ExecuteConditionalSwap(params ExecuteParams) (*SwapResult, error) {
	account, err := e.authorise(params)
	if err != nil {
		return nil, err
	}
	policy := oracle.Policy{Kind: oracle.PolicyThreshold, Threshold: account.PriceThreshold}
	return e.execute(params, account, policy)
}

// ExecuteConditionSwap runs a range policy supplied per call: the price is
// classified against the short/long band and the swap executes only when the
// classification matches target.
func (e *Engine) ExecuteConditionSwap(params ExecuteParams, shortThreshold, longThreshold int64, target oracle.Condition) (*SwapResult, error) {
	account, err := e.authorise(params)
	if err != nil {
		return nil, err
	}
	policy := oracle.Policy{
		Kind:           oracle.PolicyRange,
		ShortThreshold: shortThreshold,
		LongThreshold:  longThreshold,
		Target:         target,
	}
	return e.execute(params, account, policy)
}

// authorise runs the access checks that precede any oracle work: account
// existence, caller identity, module pause, the active switch and the rate
// limiter.
func (e *Engine) authorise(params ExecuteParams) (*Account, error) {
	if e == nil {
		return nil, fmt.Errorf("trader: engine not initialised")
	}
	account, exists, err := e.store.Get(params.Trader)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTraderNotFound
	}
	if params.Caller != account.Authority {
		metrics.SwapRejected("unauthorized")
		return nil, ErrUnauthorized
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		metrics.SwapRejected("paused")
		return nil, err
	}
	if !account.Active {
		metrics.SwapRejected("inactive")
		return nil, ErrTraderInactive
	}
	if err := e.limiter.Check(account.LastSwapTime, e.clock()); err != nil {
		metrics.SwapRejected("rate_limited")
		return nil, err
	}
	return account, nil
}

func (e *Engine) execute(params ExecuteParams, account *Account, policy oracle.Policy) (*SwapResult, error) {
	// Source account must be spendable by the caller and able to fund the swap.
	if !params.Source.authorisedFor(params.Caller) {
		metrics.SwapRejected("invalid_token_account")
		return nil, ErrInvalidTokenAccount
	}
	if params.Source.Balance < account.SwapAmount {
		metrics.SwapRejected("insufficient_balance")
		return nil, fmt.Errorf("%w: balance %d, need %d", ErrInsufficientBalance, params.Source.Balance, account.SwapAmount)
	}

	obs, err := e.validator.Validate(params.Update)
	if err != nil {
		metrics.SwapRejected("oracle")
		return nil, err
	}
	met, condition, err := oracle.Evaluate(policy, obs)
	if err != nil {
		metrics.SwapRejected("policy_invalid")
		return nil, err
	}
	if !met {
		metrics.SwapSkipped()
		e.logger.Debug("swap condition not met",
			slog.String("authority", account.Authority.String()),
			slog.Int64("price", obs.Price),
			slog.String("condition", condition.String()))
		return &SwapResult{
			Condition:   condition,
			SourcePrice: obs.Price,
		}, nil
	}

	expected, err := e.quote(account.SwapAmount)
	if err != nil {
		metrics.SwapRejected("quote")
		return nil, err
	}
	minimumOut, err := raydium.MinimumAmountOut(expected, uint64(account.SlippageBps))
	if err != nil {
		metrics.SwapRejected("slippage")
		return nil, err
	}
	if err := e.pool.ValidateProgram(params.Program); err != nil {
		metrics.SwapRejected("venue_program")
		return nil, err
	}
	if err := e.pool.ValidateAccounts(params.Accounts); err != nil {
		metrics.SwapRejected("venue_accounts")
		return nil, err
	}

	newTotal, err := common.CheckedAdd(account.TotalSwaps, 1)
	if err != nil {
		metrics.SwapRejected("overflow")
		return nil, fmt.Errorf("%w: swap counter", ErrMathOverflow)
	}

	// Effects before the external interaction.
	now := e.clock().Unix()
	journal := storage.NewJournal(e.db)
	account.TotalSwaps = newTotal
	account.LastSwapTime = now
	if err := e.store.WithDB(journal).Put(account); err != nil {
		revertJournal(journal, e.logger)
		return nil, err
	}

	instruction, err := raydium.BuildSwapInstruction(params.Program, params.Accounts, account.SwapAmount, minimumOut)
	if err != nil {
		revertJournal(journal, e.logger)
		metrics.SwapRejected("instruction")
		return nil, err
	}
	if err := e.invoker.Invoke(instruction); err != nil {
		revertJournal(journal, e.logger)
		metrics.SwapRejected("invoke_failed")
		return nil, fmt.Errorf("trader: venue call: %w", err)
	}
	journal.Commit()
	metrics.SwapExecuted()

	result := &SwapResult{
		Receipt:         uuid.NewString(),
		Executed:        true,
		Condition:       condition,
		InputAmount:     account.SwapAmount,
		ExpectedOut:     expected,
		MinimumOut:      minimumOut,
		ExchangeRateBps: rateBps(expected, account.SwapAmount),
		SourcePrice:     obs.Price,
	}
	e.logger.Info("guarded swap executed",
		slog.String("receipt", result.Receipt),
		slog.String("authority", account.Authority.String()),
		slog.Uint64("amount_in", result.InputAmount),
		slog.Uint64("minimum_out", result.MinimumOut),
		slog.Int64("price", obs.Price),
		slog.Uint64("total_swaps", newTotal))
	return result, nil
}

// quote returns the expected output for the configured input amount, using
// live reserves when a reader is wired and the one-to-one placeholder
// otherwise.
func (e *Engine) quote(amountIn uint64) (uint64, error) {
	if e.reserves == nil {
		return raydium.QuoteOneToOne(amountIn), nil
	}
	reserveIn, reserveOut, err := e.reserves.PoolReserves(e.pool.Amm)
	if err != nil {
		return 0, fmt.Errorf("trader: read pool reserves: %w", err)
	}
	return raydium.ExpectedOutput(amountIn, reserveIn, reserveOut)
}

// rateBps reports expectedOut/amountIn in basis points, zero when it cannot
// be represented.
func rateBps(expectedOut, amountIn uint64) uint64 {
	if amountIn == 0 {
		return 0
	}
	scaled, err := common.CheckedMul(expectedOut, 10_000)
	if err != nil {
		return 0
	}
	return scaled / amountIn
}

func revertJournal(journal *storage.Journal, logger *slog.Logger) {
	if err := journal.Revert(); err != nil {
		logger.Error("journal revert failed", slog.Any("error", err))
	}
}
