package program

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/hypersdk/state"
)

var _ state.Mutable = (*txn)(nil)

type pendingWrite struct {
	value   []byte
	removed bool
}

// txn stages an operation's writes over base. Nothing reaches base until
// Commit, so a failed operation leaves no trace.
type txn struct {
	base    state.Mutable
	pending map[string]pendingWrite
}

func newTxn(base state.Mutable) *txn {
	return &txn{
		base:    base,
		pending: make(map[string]pendingWrite),
	}
}

func (t *txn) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if w, ok := t.pending[string(key)]; ok {
		if w.removed {
			return nil, database.ErrNotFound
		}
		return slices.Clone(w.value), nil
	}
	return t.base.GetValue(ctx, key)
}

func (t *txn) Insert(_ context.Context, key []byte, value []byte) error {
	t.pending[string(key)] = pendingWrite{value: slices.Clone(value)}
	return nil
}

func (t *txn) Remove(_ context.Context, key []byte) error {
	t.pending[string(key)] = pendingWrite{removed: true}
	return nil
}

type priorValue struct {
	key     string
	value   []byte
	existed bool
}

// Commit applies the staged writes to base in key order. If base rejects a
// write, the writes already applied are restored before returning.
func (t *txn) Commit(ctx context.Context) error {
	keys := make([]string, 0, len(t.pending))
	for k := range t.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	applied := make([]priorValue, 0, len(keys))
	for _, k := range keys {
		old, err := t.base.GetValue(ctx, []byte(k))
		existed := err == nil
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return t.rollback(ctx, applied, err)
		}
		w := t.pending[k]
		if w.removed {
			err = t.base.Remove(ctx, []byte(k))
		} else {
			err = t.base.Insert(ctx, []byte(k), w.value)
		}
		if err != nil {
			return t.rollback(ctx, applied, err)
		}
		applied = append(applied, priorValue{key: k, value: old, existed: existed})
	}
	clear(t.pending)
	return nil
}

func (t *txn) rollback(ctx context.Context, applied []priorValue, cause error) error {
	for i := len(applied) - 1; i >= 0; i-- {
		p := applied[i]
		var err error
		if p.existed {
			err = t.base.Insert(ctx, []byte(p.key), p.value)
		} else {
			err = t.base.Remove(ctx, []byte(p.key))
		}
		if err != nil {
			return fmt.Errorf("%w (rollback failed: %v)", cause, err)
		}
	}
	return cause
}
