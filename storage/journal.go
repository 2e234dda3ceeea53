package storage

import (
	"errors"
	"fmt"
)

// Journal wraps a Database with an undo log so a guarded operation can commit
// state effects before its external interaction and still revert every write
// if that interaction fails. It restores the all-or-nothing semantics a hosted
// transaction runtime would otherwise provide.
//
// A Journal is single-operation scoped: begin one per invocation, then call
// exactly one of Commit or Revert.
type Journal struct {
	db       Database
	prior    map[string][]byte
	existed  map[string]bool
	order    []string
	finished bool
}

// NewJournal begins a journalled view over the supplied database.
func NewJournal(db Database) *Journal {
	return &Journal{
		db:      db,
		prior:   make(map[string][]byte),
		existed: make(map[string]bool),
	}
}

func (j *Journal) remember(key []byte) error {
	k := string(key)
	if _, seen := j.existed[k]; seen {
		return nil
	}
	ok, err := j.db.Has(key)
	if err != nil {
		return err
	}
	j.existed[k] = ok
	if ok {
		value, err := j.db.Get(key)
		if err != nil {
			return err
		}
		j.prior[k] = value
	}
	j.order = append(j.order, k)
	return nil
}

// Put writes through to the underlying database, recording the prior value the
// first time each key is touched.
func (j *Journal) Put(key []byte, value []byte) error {
	if j.finished {
		return fmt.Errorf("storage: journal already finished")
	}
	if err := j.remember(key); err != nil {
		return err
	}
	return j.db.Put(key, value)
}

// Delete removes a key through the journal.
func (j *Journal) Delete(key []byte) error {
	if j.finished {
		return fmt.Errorf("storage: journal already finished")
	}
	if err := j.remember(key); err != nil {
		return err
	}
	return j.db.Delete(key)
}

// Get reads through to the underlying database.
func (j *Journal) Get(key []byte) ([]byte, error) {
	return j.db.Get(key)
}

// Has reads through to the underlying database.
func (j *Journal) Has(key []byte) (bool, error) {
	return j.db.Has(key)
}

// Close is a no-op; the journal does not own the underlying database.
func (j *Journal) Close() error { return nil }

// Commit discards the undo log, making every journalled write permanent.
func (j *Journal) Commit() {
	j.finished = true
	j.prior = nil
	j.existed = nil
	j.order = nil
}

// Revert restores every touched key to its pre-journal state, most recent
// first. The first restoration error aborts and is returned; state may then be
// partially restored, which callers should treat as fatal.
func (j *Journal) Revert() error {
	if j.finished {
		return nil
	}
	j.finished = true
	var firstErr error
	for i := len(j.order) - 1; i >= 0; i-- {
		k := j.order[i]
		var err error
		if j.existed[k] {
			err = j.db.Put([]byte(k), j.prior[k])
		} else {
			err = j.db.Delete([]byte(k))
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return errors.Join(fmt.Errorf("storage: journal revert incomplete"), firstErr)
	}
	return nil
}

var _ Database = (*Journal)(nil)
