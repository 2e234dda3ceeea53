package raydium

import (
	"encoding/binary"
	"errors"
	"testing"

	"vectai/native/common"
)

func testAddr(seed byte) common.Address {
	var raw [common.AddressLength]byte
	for i := range raw {
		raw[i] = seed
	}
	return common.BytesToAddress(raw[:])
}

func testAccounts() SwapAccounts {
	return SwapAccounts{
		TokenProgram:    testAddr(1),
		Amm:             testAddr(2),
		AmmAuthority:    testAddr(3),
		AmmOpenOrders:   testAddr(4),
		AmmTargetOrders: testAddr(5),
		PoolCoinVault:   testAddr(6),
		PoolPcVault:     testAddr(7),
		MarketProgram:   testAddr(8),
		Market:          testAddr(9),
		MarketBids:      testAddr(10),
		MarketAsks:      testAddr(11),
		MarketEventQ:    testAddr(12),
		MarketCoinVault: testAddr(13),
		MarketPcVault:   testAddr(14),
		MarketVaultSign: testAddr(15),
		UserSource:      testAddr(16),
		UserDestination: testAddr(17),
		UserAuthority:   testAddr(18),
	}
}

func testPool() PoolConfig {
	return PoolConfig{
		AmmProgram:      testAddr(99),
		Amm:             testAddr(2),
		AmmAuthority:    testAddr(3),
		AmmOpenOrders:   testAddr(4),
		AmmTargetOrders: testAddr(5),
		PoolCoinVault:   testAddr(6),
		PoolPcVault:     testAddr(7),
		MarketProgram:   testAddr(8),
		Market:          testAddr(9),
		MarketBids:      testAddr(10),
		MarketAsks:      testAddr(11),
		MarketEventQ:    testAddr(12),
		MarketCoinVault: testAddr(13),
		MarketPcVault:   testAddr(14),
		MarketVaultSign: testAddr(15),
	}
}

func TestBuildSwapInstructionDataLayout(t *testing.T) {
	ix, err := BuildSwapInstruction(testAddr(99), testAccounts(), 1_000_000, 900_000_000)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(ix.Data) != 17 {
		t.Fatalf("unexpected data length %d", len(ix.Data))
	}
	if ix.Data[0] != SwapOpcode {
		t.Fatalf("unexpected opcode %d", ix.Data[0])
	}
	if got := binary.LittleEndian.Uint64(ix.Data[1:9]); got != 1_000_000 {
		t.Fatalf("unexpected amount in: %d", got)
	}
	if got := binary.LittleEndian.Uint64(ix.Data[9:17]); got != 900_000_000 {
		t.Fatalf("unexpected minimum out: %d", got)
	}
}

func TestBuildSwapInstructionAccountOrder(t *testing.T) {
	accounts := testAccounts()
	ix, err := BuildSwapInstruction(testAddr(99), accounts, 1, 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(ix.Accounts) != 18 {
		t.Fatalf("expected 18 accounts, got %d", len(ix.Accounts))
	}
	// The positional contract: spot-check anchors at both ends and the middle.
	if ix.Accounts[0].Key != accounts.TokenProgram {
		t.Fatal("token program must be first")
	}
	if ix.Accounts[7].Key != accounts.MarketProgram {
		t.Fatal("market program must be eighth")
	}
	if ix.Accounts[17].Key != accounts.UserAuthority || !ix.Accounts[17].Signer {
		t.Fatal("user authority must be last and a signer")
	}
	signers := 0
	for _, meta := range ix.Accounts {
		if meta.Signer {
			signers++
		}
	}
	if signers != 1 {
		t.Fatalf("expected exactly one signer, got %d", signers)
	}
}

func TestBuildSwapInstructionRejectsMissingAccounts(t *testing.T) {
	accounts := testAccounts()
	accounts.MarketBids = common.Address{}
	if _, err := BuildSwapInstruction(testAddr(99), accounts, 1, 1); !errors.Is(err, ErrIncompleteAccounts) {
		t.Fatalf("expected ErrIncompleteAccounts, got %v", err)
	}
}

func TestPoolConfigValidateAccounts(t *testing.T) {
	pool := testPool()
	if err := pool.ValidateAccounts(testAccounts()); err != nil {
		t.Fatalf("whitelisted accounts rejected: %v", err)
	}

	tampered := testAccounts()
	tampered.Market = testAddr(200)
	if err := pool.ValidateAccounts(tampered); !errors.Is(err, ErrInvalidPool) {
		t.Fatalf("expected ErrInvalidPool, got %v", err)
	}
}

func TestPoolConfigValidateProgram(t *testing.T) {
	pool := testPool()
	if err := pool.ValidateProgram(testAddr(99)); err != nil {
		t.Fatalf("whitelisted program rejected: %v", err)
	}
	if err := pool.ValidateProgram(testAddr(1)); !errors.Is(err, ErrInvalidVenueProgram) {
		t.Fatalf("expected ErrInvalidVenueProgram, got %v", err)
	}
}
