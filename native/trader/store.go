package trader

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"vectai/native/common"
	"vectai/storage"
)

var accountPrefix = []byte("trader/account/")

// accountKey derives the deterministic storage key for an authority's guarded
// record.
func accountKey(authority common.Address) []byte {
	encoded := authority.String()
	key := make([]byte, len(accountPrefix)+len(encoded))
	copy(key, accountPrefix)
	copy(key[len(accountPrefix):], encoded)
	return key
}

// storedAccount is the fixed RLP layout. Thresholds and timestamps are kept
// unsigned; both are positive by construction.
type storedAccount struct {
	Authority      [common.AddressLength]byte
	PriceThreshold uint64
	SwapAmount     uint64
	SlippageBps    uint16
	TotalSwaps     uint64
	LastSwapTime   uint64
	Active         bool
}

// Store persists guarded trading records as fixed-layout RLP structures.
type Store struct {
	db storage.Database
}

// NewStore constructs a store over the supplied database.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

// WithDB returns a store bound to a different database, used to scope writes
// to a journal for the duration of one guarded swap.
func (s *Store) WithDB(db storage.Database) *Store {
	return &Store{db: db}
}

// Put writes the guarded record for its authority.
func (s *Store) Put(account *Account) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("trader: store not initialised")
	}
	if account == nil {
		return fmt.Errorf("trader: account must not be nil")
	}
	if account.PriceThreshold < 0 || account.LastSwapTime < 0 {
		return fmt.Errorf("trader: negative field in account record")
	}
	stored := storedAccount{
		Authority:      account.Authority,
		PriceThreshold: uint64(account.PriceThreshold),
		SwapAmount:     account.SwapAmount,
		SlippageBps:    account.SlippageBps,
		TotalSwaps:     account.TotalSwaps,
		LastSwapTime:   uint64(account.LastSwapTime),
		Active:         account.Active,
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("trader: encode account: %w", err)
	}
	return s.db.Put(accountKey(account.Authority), encoded)
}

// Get loads the guarded record for an authority. The boolean reports
// existence.
func (s *Store) Get(authority common.Address) (*Account, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, fmt.Errorf("trader: store not initialised")
	}
	raw, err := s.db.Get(accountKey(authority))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var stored storedAccount
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("trader: decode account: %w", err)
	}
	account := &Account{
		Authority:      common.Address(stored.Authority),
		PriceThreshold: int64(stored.PriceThreshold),
		SwapAmount:     stored.SwapAmount,
		SlippageBps:    stored.SlippageBps,
		TotalSwaps:     stored.TotalSwaps,
		LastSwapTime:   int64(stored.LastSwapTime),
		Active:         stored.Active,
	}
	return account, true, nil
}
