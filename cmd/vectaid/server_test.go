package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vectai/native/common"
	"vectai/native/oracle"
	"vectai/native/raydium"
	"vectai/native/token"
	"vectai/native/trader"
	"vectai/storage"
)

const testFeed = "test-feed"

func poolAddr(seed string) common.Address {
	return common.BytesToAddress([]byte(seed))
}

func serverPool() raydium.PoolConfig {
	return raydium.PoolConfig{
		AmmProgram:      poolAddr("amm-program"),
		Amm:             poolAddr("amm"),
		AmmAuthority:    poolAddr("amm-auth"),
		AmmOpenOrders:   poolAddr("open-orders"),
		AmmTargetOrders: poolAddr("target-orders"),
		PoolCoinVault:   poolAddr("coin-vault"),
		PoolPcVault:     poolAddr("pc-vault"),
		MarketProgram:   poolAddr("market-program"),
		Market:          poolAddr("market"),
		MarketBids:      poolAddr("bids"),
		MarketAsks:      poolAddr("asks"),
		MarketEventQ:    poolAddr("event-queue"),
		MarketCoinVault: poolAddr("market-coin"),
		MarketPcVault:   poolAddr("market-pc"),
		MarketVaultSign: poolAddr("vault-signer"),
	}
}

type recordingInvoker struct {
	calls int
}

func (r *recordingInvoker) Invoke(raydium.Instruction) error {
	r.calls++
	return nil
}

func newTestServer(t *testing.T, price int64) (*httptest.Server, *recordingInvoker) {
	t.Helper()
	db := storage.NewMemDB()
	pool := serverPool()
	admin := poolAddr("admin")
	invoker := &recordingInvoker{}
	engine := trader.NewEngine(db, oracle.NewValidator(), pool, invoker, admin)
	tokens := token.NewGuard(db, nil, nil, admin, nil)
	source := oracle.NewManualSource()
	source.Set(testFeed, *oracle.StaticObservation(price, 100, time.Now()))
	srv := newServer(engine, tokens, source, testFeed, pool, nil)
	ts := httptest.NewServer(srv.router())
	t.Cleanup(ts.Close)
	return ts, invoker
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, 45_000)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestInitializeAndFetchTrader(t *testing.T) {
	ts, _ := newTestServer(t, 45_000)
	authority := poolAddr("trader").String()

	resp := postJSON(t, ts.URL+"/v1/trader", map[string]any{
		"authority":      authority,
		"priceThreshold": 40_000,
		"swapAmount":     1_000_000,
		"slippageBps":    50,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	get, err := http.Get(ts.URL + "/v1/trader/" + authority)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := decodeBody(t, get)
	if body["authority"] != authority || body["active"] != true {
		t.Fatalf("unexpected account payload: %v", body)
	}
}

func TestTraderNotFound(t *testing.T) {
	ts, _ := newTestServer(t, 45_000)
	resp, err := http.Get(ts.URL + "/v1/trader/" + poolAddr("missing").String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestSwapEndpoint(t *testing.T) {
	ts, invoker := newTestServer(t, 45_000)
	authority := poolAddr("trader").String()

	resp := postJSON(t, ts.URL+"/v1/trader", map[string]any{
		"authority":      authority,
		"priceThreshold": 40_000,
		"swapAmount":     1_000_000,
		"slippageBps":    50,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("initialise status: %d", resp.StatusCode)
	}

	swap := map[string]any{
		"caller":          authority,
		"trader":          authority,
		"tokenProgram":    poolAddr("token-program").String(),
		"userSource":      poolAddr("user-source").String(),
		"userDestination": poolAddr("user-dest").String(),
		"sourceOwner":     authority,
		"sourceBalance":   5_000_000,
	}
	resp = postJSON(t, ts.URL+"/v1/swap", swap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("swap status: %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["executed"] != true {
		t.Fatalf("expected executed swap: %v", body)
	}
	if invoker.calls != 1 {
		t.Fatalf("expected one venue call, got %d", invoker.calls)
	}

	// Second attempt inside the cooldown surfaces 429.
	resp = postJSON(t, ts.URL+"/v1/swap", swap)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected rate limit status, got %d", resp.StatusCode)
	}
}

func TestSwapEndpointRejectsUnknownCaller(t *testing.T) {
	ts, _ := newTestServer(t, 45_000)
	authority := poolAddr("trader").String()
	resp := postJSON(t, ts.URL+"/v1/trader", map[string]any{
		"authority":      authority,
		"priceThreshold": 40_000,
		"swapAmount":     1_000_000,
		"slippageBps":    50,
	})
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/v1/swap", map[string]any{
		"caller":          poolAddr("intruder").String(),
		"trader":          authority,
		"tokenProgram":    poolAddr("token-program").String(),
		"userSource":      poolAddr("user-source").String(),
		"userDestination": poolAddr("user-dest").String(),
		"sourceOwner":     poolAddr("intruder").String(),
		"sourceBalance":   5_000_000,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden, got %d", resp.StatusCode)
	}
}

func TestStatusForKnownSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{trader.ErrTraderNotFound, http.StatusNotFound},
		{token.ErrTokenNotFound, http.StatusNotFound},
		{trader.ErrUnauthorized, http.StatusForbidden},
		{token.ErrInvalidMintAuthority, http.StatusForbidden},
		{token.ErrTokenPaused, http.StatusForbidden},
		{common.ErrModulePaused, http.StatusForbidden},
		{trader.ErrRateLimited, http.StatusTooManyRequests},
		{trader.ErrTraderExists, http.StatusConflict},
		{token.ErrTokenExists, http.StatusConflict},
		{token.ErrInvalidAmount, http.StatusBadRequest},
		{token.ErrInsufficientSupply, http.StatusBadRequest},
		{token.ErrMathOverflow, http.StatusBadRequest},
		{trader.ErrMathOverflow, http.StatusBadRequest},
		{raydium.ErrMathOverflow, http.StatusBadRequest},
		{raydium.ErrEmptyPool, http.StatusBadRequest},
		{oracle.ErrStalePrice, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v): got %d want %d", tc.err, got, tc.want)
		}
	}
	if got := statusFor(errors.New("disk failure")); got != http.StatusInternalServerError {
		t.Errorf("unknown error: got %d want 500", got)
	}
}

func TestSetActiveRequiresAdmin(t *testing.T) {
	ts, _ := newTestServer(t, 45_000)
	authority := poolAddr("trader").String()
	resp := postJSON(t, ts.URL+"/v1/trader", map[string]any{
		"authority":      authority,
		"priceThreshold": 40_000,
		"swapAmount":     1_000_000,
		"slippageBps":    50,
	})
	resp.Body.Close()

	url := fmt.Sprintf("%s/v1/trader/%s/active", ts.URL, authority)
	resp = postJSON(t, url, map[string]any{"caller": authority, "active": false})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden for non-admin, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, url, map[string]any{"caller": poolAddr("admin").String(), "active": false})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok for admin, got %d", resp.StatusCode)
	}
}
