package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vectai/native/common"
	"vectai/native/oracle"
	"vectai/native/raydium"
	"vectai/native/token"
	"vectai/native/trader"
)

type server struct {
	engine *trader.Engine
	tokens *token.Guard
	source oracle.PriceSource
	feedID string
	pool   raydium.PoolConfig
	logger *slog.Logger
}

func newServer(engine *trader.Engine, tokens *token.Guard, source oracle.PriceSource, feedID string, pool raydium.PoolConfig, logger *slog.Logger) *server {
	return &server{
		engine: engine,
		tokens: tokens,
		source: source,
		feedID: feedID,
		pool:   pool,
		logger: logger,
	}
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/trader", s.handleInitialize)
		r.Get("/trader/{authority}", s.handleAccount)
		r.Post("/trader/{authority}/active", s.handleSetActive)
		r.Post("/swap", s.handleSwap)
		r.Get("/token/{mint}", s.handleSupply)
	})
	return r
}

type initializeRequest struct {
	Authority      string `json:"authority"`
	PriceThreshold int64  `json:"priceThreshold"`
	SwapAmount     uint64 `json:"swapAmount"`
	SlippageBps    uint16 `json:"slippageBps"`
}

func (s *server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	authority, err := common.ParseAddress(req.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	account, err := s.engine.Initialize(authority, req.PriceThreshold, req.SwapAmount, req.SlippageBps)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, accountResponse(account))
}

func (s *server) handleAccount(w http.ResponseWriter, r *http.Request) {
	authority, err := common.ParseAddress(chi.URLParam(r, "authority"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	account, err := s.engine.Account(authority)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(account))
}

type setActiveRequest struct {
	Caller string `json:"caller"`
	Active bool   `json:"active"`
}

func (s *server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	authority, err := common.ParseAddress(chi.URLParam(r, "authority"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := common.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.SetActive(caller, authority, req.Active); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

type swapRequest struct {
	Caller string `json:"caller"`
	Trader string `json:"trader"`

	TokenProgram    string `json:"tokenProgram"`
	UserSource      string `json:"userSource"`
	UserDestination string `json:"userDestination"`

	SourceOwner    string  `json:"sourceOwner"`
	SourceDelegate *string `json:"sourceDelegate,omitempty"`
	SourceBalance  uint64  `json:"sourceBalance"`

	// Band switches the call to the range policy when present.
	Band *bandRequest `json:"band,omitempty"`
}

type bandRequest struct {
	Short  int64  `json:"short"`
	Long   int64  `json:"long"`
	Target string `json:"target"`
}

func (s *server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	params, err := s.swapParams(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	update, err := s.source.GetPrice(s.feedID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	params.Update = update

	var result *trader.SwapResult
	if req.Band != nil {
		target, err := parseCondition(req.Band.Target)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		result, err = s.engine.ExecuteConditionSwap(params, req.Band.Short, req.Band.Long, target)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	} else {
		result, err = s.engine.ExecuteConditionalSwap(params)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	writeJSON(w, http.StatusOK, swapResponse(result))
}

func (s *server) handleSupply(w http.ResponseWriter, r *http.Request) {
	mint, err := common.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	state, err := s.tokens.Supply(mint)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mint":      state.Mint.String(),
		"authority": state.MintAuthority.String(),
		"maxSupply": state.MaxSupply,
		"minted":    state.Minted,
		"remaining": state.Remaining(),
		"decimals":  state.Decimals,
		"paused":    state.Paused,
	})
}

// swapParams assembles the execute parameters from the request and the
// configured venue whitelist. Pool and market accounts always come from the
// whitelist; only the user-side accounts are caller supplied.
func (s *server) swapParams(req swapRequest) (trader.ExecuteParams, error) {
	var params trader.ExecuteParams
	caller, err := common.ParseAddress(req.Caller)
	if err != nil {
		return params, err
	}
	traderAddr, err := common.ParseAddress(req.Trader)
	if err != nil {
		return params, err
	}
	tokenProgram, err := common.ParseAddress(req.TokenProgram)
	if err != nil {
		return params, err
	}
	userSource, err := common.ParseAddress(req.UserSource)
	if err != nil {
		return params, err
	}
	userDestination, err := common.ParseAddress(req.UserDestination)
	if err != nil {
		return params, err
	}
	sourceOwner, err := common.ParseAddress(req.SourceOwner)
	if err != nil {
		return params, err
	}
	source := trader.TokenAccount{Owner: sourceOwner, Balance: req.SourceBalance}
	if req.SourceDelegate != nil {
		delegate, err := common.ParseAddress(*req.SourceDelegate)
		if err != nil {
			return params, err
		}
		source.Delegate = &delegate
	}
	params = trader.ExecuteParams{
		Caller:  caller,
		Trader:  traderAddr,
		Program: s.pool.AmmProgram,
		Accounts: raydium.SwapAccounts{
			TokenProgram:    tokenProgram,
			Amm:             s.pool.Amm,
			AmmAuthority:    s.pool.AmmAuthority,
			AmmOpenOrders:   s.pool.AmmOpenOrders,
			AmmTargetOrders: s.pool.AmmTargetOrders,
			PoolCoinVault:   s.pool.PoolCoinVault,
			PoolPcVault:     s.pool.PoolPcVault,
			MarketProgram:   s.pool.MarketProgram,
			Market:          s.pool.Market,
			MarketBids:      s.pool.MarketBids,
			MarketAsks:      s.pool.MarketAsks,
			MarketEventQ:    s.pool.MarketEventQ,
			MarketCoinVault: s.pool.MarketCoinVault,
			MarketPcVault:   s.pool.MarketPcVault,
			MarketVaultSign: s.pool.MarketVaultSign,
			UserSource:      userSource,
			UserDestination: userDestination,
			UserAuthority:   caller,
		},
		Source: source,
	}
	return params, nil
}

func parseCondition(target string) (oracle.Condition, error) {
	switch target {
	case "short":
		return oracle.ConditionShort, nil
	case "mid":
		return oracle.ConditionMid, nil
	case "long":
		return oracle.ConditionLong, nil
	default:
		return oracle.ConditionMid, errors.New("target must be short, mid, or long")
	}
}

func accountResponse(account *trader.Account) map[string]any {
	return map[string]any{
		"authority":      account.Authority.String(),
		"priceThreshold": account.PriceThreshold,
		"swapAmount":     account.SwapAmount,
		"slippageBps":    account.SlippageBps,
		"totalSwaps":     account.TotalSwaps,
		"lastSwapTime":   account.LastSwapTime,
		"active":         account.Active,
	}
}

func swapResponse(result *trader.SwapResult) map[string]any {
	return map[string]any{
		"receipt":         result.Receipt,
		"executed":        result.Executed,
		"condition":       result.Condition.String(),
		"inputAmount":     result.InputAmount,
		"expectedOut":     result.ExpectedOut,
		"minimumOut":      result.MinimumOut,
		"exchangeRateBps": result.ExchangeRateBps,
		"sourcePrice":     result.SourcePrice,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, trader.ErrTraderNotFound), errors.Is(err, token.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, trader.ErrUnauthorized),
		errors.Is(err, trader.ErrUnauthorizedAdmin),
		errors.Is(err, token.ErrUnauthorizedAdmin),
		errors.Is(err, token.ErrInvalidMintAuthority),
		errors.Is(err, token.ErrTokenPaused),
		errors.Is(err, common.ErrModulePaused):
		return http.StatusForbidden
	case errors.Is(err, trader.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, trader.ErrTraderExists), errors.Is(err, token.ErrTokenExists):
		return http.StatusConflict
	case errors.Is(err, trader.ErrInvalidInput),
		errors.Is(err, trader.ErrTraderInactive),
		errors.Is(err, trader.ErrInvalidTokenAccount),
		errors.Is(err, trader.ErrInsufficientBalance),
		errors.Is(err, trader.ErrMathOverflow),
		errors.Is(err, token.ErrInvalidAmount),
		errors.Is(err, token.ErrInsufficientSupply),
		errors.Is(err, token.ErrMathOverflow),
		errors.Is(err, common.ErrInvalidAddress),
		errors.Is(err, oracle.ErrStalePrice),
		errors.Is(err, oracle.ErrFuturePrice),
		errors.Is(err, oracle.ErrInvalidPrice),
		errors.Is(err, oracle.ErrPriceTooBig),
		errors.Is(err, oracle.ErrLowConfidence),
		errors.Is(err, oracle.ErrInvalidPriceUpdate),
		errors.Is(err, oracle.ErrNoPriceFeedFound),
		errors.Is(err, oracle.ErrInvalidThreshold),
		errors.Is(err, raydium.ErrInvalidVenueProgram),
		errors.Is(err, raydium.ErrInvalidPool),
		errors.Is(err, raydium.ErrIncompleteAccounts),
		errors.Is(err, raydium.ErrSlippageTooHigh),
		errors.Is(err, raydium.ErrMathOverflow),
		errors.Is(err, raydium.ErrEmptyPool):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
