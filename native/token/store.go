package token

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"vectai/native/common"
	"vectai/storage"
)

var supplyPrefix = []byte("token/supply/")

// supplyKey derives the deterministic storage key for a mint's supply record.
func supplyKey(mint common.Address) []byte {
	encoded := mint.String()
	key := make([]byte, len(supplyPrefix)+len(encoded))
	copy(key, supplyPrefix)
	copy(key[len(supplyPrefix):], encoded)
	return key
}

type storedSupplyState struct {
	Mint          [common.AddressLength]byte
	MintAuthority [common.AddressLength]byte
	MaxSupply     uint64
	Minted        uint64
	Decimals      uint8
	Paused        bool
}

// Store persists supply records as fixed-layout RLP structures.
type Store struct {
	db storage.Database
}

// NewStore constructs a store over the supplied database.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

// WithDB returns a store bound to a different database, used to scope writes
// to a journal for the duration of one guarded operation.
func (s *Store) WithDB(db storage.Database) *Store {
	return &Store{db: db}
}

// Put writes the supply record for its mint.
func (s *Store) Put(state *SupplyState) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("token: store not initialised")
	}
	if state == nil {
		return fmt.Errorf("token: state must not be nil")
	}
	stored := storedSupplyState{
		Mint:          state.Mint,
		MintAuthority: state.MintAuthority,
		MaxSupply:     state.MaxSupply,
		Minted:        state.Minted,
		Decimals:      state.Decimals,
		Paused:        state.Paused,
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("token: encode supply state: %w", err)
	}
	return s.db.Put(supplyKey(state.Mint), encoded)
}

// Get loads the supply record for a mint. The boolean reports existence.
func (s *Store) Get(mint common.Address) (*SupplyState, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, fmt.Errorf("token: store not initialised")
	}
	raw, err := s.db.Get(supplyKey(mint))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var stored storedSupplyState
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("token: decode supply state: %w", err)
	}
	state := &SupplyState{
		Mint:          common.Address(stored.Mint),
		MintAuthority: common.Address(stored.MintAuthority),
		MaxSupply:     stored.MaxSupply,
		Minted:        stored.Minted,
		Decimals:      stored.Decimals,
		Paused:        stored.Paused,
	}
	return state, true, nil
}
