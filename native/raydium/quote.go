package raydium

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"vectai/native/common"
)

var (
	// ErrSlippageTooHigh indicates the tolerance exceeded the hard 10% cap.
	ErrSlippageTooHigh = errors.New("raydium: slippage tolerance exceeds maximum")
	// ErrMathOverflow indicates intermediate slippage or quote arithmetic left
	// the uint64 domain.
	ErrMathOverflow = errors.New("raydium: math overflow")
	// ErrEmptyPool indicates the pool reported a zero reserve.
	ErrEmptyPool = errors.New("raydium: empty pool reserves")
)

// MaxSlippageBps is the hard ceiling on slippage tolerance (10%).
const MaxSlippageBps uint64 = 1000

// ReserveReader reports the current pool vault balances so the engine can
// quote expected output before applying slippage tolerance.
type ReserveReader interface {
	PoolReserves(amm common.Address) (reserveIn, reserveOut uint64, err error)
}

// MinimumAmountOut computes expected*(10000-slippageBps)/10000 with checked
// arithmetic. Any intermediate overflow rejects the quote. For any tolerance
// within the cap the result satisfies minimumOut ≤ expected and
// minimumOut ≥ expected*0.9.
func MinimumAmountOut(expected uint64, slippageBps uint64) (uint64, error) {
	if slippageBps > MaxSlippageBps {
		return 0, fmt.Errorf("%w: %d bps", ErrSlippageTooHigh, slippageBps)
	}
	multiplier := 10_000 - slippageBps
	scaled, err := common.CheckedMul(expected, multiplier)
	if err != nil {
		return 0, fmt.Errorf("%w: expected %d at %d bps", ErrMathOverflow, expected, slippageBps)
	}
	return scaled / 10_000, nil
}

// ExpectedOutput quotes a constant-product swap against the reported reserves:
// out = amountIn*reserveOut/(reserveIn+amountIn). The quote carries no fee
// adjustment; slippage tolerance absorbs venue fees.
func ExpectedOutput(amountIn, reserveIn, reserveOut uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, nil
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrEmptyPool
	}
	if reserveIn > math.MaxUint64-amountIn {
		return 0, ErrMathOverflow
	}
	numerator := new(big.Int).Mul(new(big.Int).SetUint64(amountIn), new(big.Int).SetUint64(reserveOut))
	denominator := new(big.Int).SetUint64(reserveIn + amountIn)
	out := numerator.Div(numerator, denominator)
	if !out.IsUint64() {
		return 0, ErrMathOverflow
	}
	return out.Uint64(), nil
}

// QuoteOneToOne mirrors the placeholder quoting used by venues that cannot
// report reserves: expected output equals the input amount.
func QuoteOneToOne(amountIn uint64) uint64 { return amountIn }
