package program

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/escrow"
	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/pda"
	"github.com/chokosabe/predictchatvm/storage"
)

var _ state.Mutable = (*syncStore)(nil)

// syncStore guards a store that is not safe for concurrent use.
type syncStore struct {
	lock  sync.RWMutex
	inner state.Mutable
}

func (s *syncStore) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.inner.GetValue(ctx, key)
}

func (s *syncStore) Insert(ctx context.Context, key []byte, value []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.inner.Insert(ctx, key, value)
}

func (s *syncStore) Remove(ctx context.Context, key []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.inner.Remove(ctx, key)
}

// keyLocks hands out one mutex per state key. Keys are always locked in
// sorted order.
type keyLocks struct {
	lock  sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyLocks) get(key string) *sync.Mutex {
	k.lock.Lock()
	defer k.lock.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *keyLocks) acquire(keys state.Keys) func() {
	held := make([]*sync.Mutex, 0, len(keys))
	for _, key := range slices.Sorted(maps.Keys(keys)) {
		m := k.get(key)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// Executor runs instructions against a shared store outside of a chain.
// Instructions touching the same records are serialized; instructions on
// disjoint records run concurrently. The clock stands in for block time, in
// milliseconds.
type Executor struct {
	proc  *Processor
	store *syncStore
	clock *mockable.Clock
	locks *keyLocks
}

func NewExecutor(proc *Processor, store state.Mutable, clock *mockable.Clock) *Executor {
	if clock == nil {
		clock = &mockable.Clock{}
	}
	return &Executor{
		proc:  proc,
		store: &syncStore{inner: store},
		clock: clock,
		locks: &keyLocks{locks: make(map[string]*sync.Mutex)},
	}
}

// Now returns the executor's clock as a millisecond timestamp.
func (e *Executor) Now() int64 {
	return e.clock.Time().UnixMilli()
}

func (e *Executor) InitializeRoom(ctx context.Context, authority codec.Address, args InitializeRoomArgs) (*storage.Room, error) {
	keys, err := InitializeRoomKeys(args.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	defer e.locks.acquire(keys)()
	return e.proc.InitializeRoom(ctx, e.store, e.Now(), authority, args)
}

func (e *Executor) StakeAndCommit(ctx context.Context, predictor codec.Address, args StakeArgs) (*storage.Prediction, error) {
	keys, err := StakeAndCommitKeys(args.RoomID, predictor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	defer e.locks.acquire(keys)()
	return e.proc.StakeAndCommit(ctx, e.store, e.Now(), predictor, args)
}

// SettlePrediction settles against the blob feed has most recently
// published.
func (e *Executor) SettlePrediction(ctx context.Context, settler codec.Address, args SettleArgs, feed codec.Address) (*storage.Prediction, error) {
	keys, err := SettlePredictionKeys(args.RoomID, args.Predictor, feed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	defer e.locks.acquire(keys)()
	acct, err := LoadOracle(ctx, e.store, feed)
	if err != nil {
		return nil, err
	}
	return e.proc.SettlePrediction(ctx, e.store, e.Now(), settler, args, acct)
}

// PublishPrice stores data as feed's current blob.
func (e *Executor) PublishPrice(ctx context.Context, feed codec.Address, data []byte) error {
	defer e.locks.acquire(PublishPriceKeys(feed))()
	return oracle.SetFeed(ctx, e.store, feed, data)
}

// FundVault moves amount of depositor's balance into roomID's vault.
func (e *Executor) FundVault(ctx context.Context, roomID string, depositor codec.Address, amount uint64) error {
	keys, err := FundVaultKeys(roomID, depositor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	vault, err := pda.Vault(roomID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	defer e.locks.acquire(keys)()
	return escrow.Fund(ctx, e.store, vault.Codec(), depositor, amount)
}

// Mint credits addr's native balance.
func (e *Executor) Mint(ctx context.Context, addr codec.Address, amount uint64) error {
	defer e.locks.acquire(state.Keys{string(storage.BalanceKey(addr)): state.All})()
	return storage.AddBalance(ctx, e.store, addr, amount)
}

func (e *Executor) Room(ctx context.Context, roomID string) (*storage.Room, error) {
	return ReadRoom(ctx, e.store, roomID)
}

func (e *Executor) Prediction(ctx context.Context, roomID string, predictor codec.Address) (*storage.Prediction, error) {
	return ReadPrediction(ctx, e.store, roomID, predictor)
}

func (e *Executor) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	return storage.GetBalance(ctx, e.store, addr)
}

// Deposited returns depositor's uncommitted funds in roomID's vault.
func (e *Executor) Deposited(ctx context.Context, roomID string, depositor codec.Address) (uint64, error) {
	vault, err := pda.Vault(roomID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return escrow.Deposited(ctx, e.store, vault.Codec(), depositor)
}

// State exposes the guarded store for read-only callers.
func (e *Executor) State() state.Immutable {
	return e.store
}
