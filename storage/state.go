package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"math"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
)

const (
	// BalancePrefix is the prefix for native token balances used to pay fees
	// and fund vaults.
	// Format: BalancePrefix | Address | chunks -> uint64
	BalancePrefix byte = 0x0

	// RoomPrefix is the prefix for room records.
	// Format: RoomPrefix | RoomAddress | chunks -> Room
	RoomPrefix byte = 0x1

	// PredictionPrefix is the prefix for prediction records.
	// Format: PredictionPrefix | PredictionAddress | chunks -> Prediction
	PredictionPrefix byte = 0x2

	// EscrowPrefix is the prefix for vault deposits.
	// Format: EscrowPrefix | Vault | Depositor | chunks -> uint64
	EscrowPrefix byte = 0x3

	// OracleFeedPrefix is the prefix for oracle feed accounts.
	// Format: OracleFeedPrefix | Feed | chunks -> raw blob
	OracleFeedPrefix byte = 0x4
)

// Chunk counts declare the maximum value size (in 64 byte chunks) stored
// under each kind of key.
const (
	BalanceChunks    uint16 = 1
	RoomChunks       uint16 = (RoomSize + 63) / 64
	PredictionChunks uint16 = (PredictionSize + 63) / 64
	EscrowChunks     uint16 = 1
	OracleFeedChunks uint16 = (consts.MaxOracleDataSize + 63) / 64
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// AddressKey builds a prefix | address | chunks state key.
func AddressKey(prefix byte, addr codec.Address, chunks uint16) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], addr[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen:], chunks)
	return k
}

// BalanceKey returns the state key for an address's native token balance.
func BalanceKey(addr codec.Address) []byte {
	return AddressKey(BalancePrefix, addr, BalanceChunks)
}

// GetBalance retrieves the native token balance for a given address.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	valBytes, err := im.GetValue(ctx, BalanceKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return database.ParseUInt64(valBytes)
}

// SetBalance sets the native token balance for a given address. A zero
// balance removes the key.
func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	key := BalanceKey(addr)
	if amount == 0 {
		if err := mu.Remove(ctx, key); err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
		return nil
	}
	return mu.Insert(ctx, key, database.PackUInt64(amount))
}

// DeductBalance subtracts an amount from an address's native token balance.
// It returns ErrInsufficientBalance if the deduction is not possible.
func DeductBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	currentBalance, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	if currentBalance < amount {
		return ErrInsufficientBalance
	}
	return SetBalance(ctx, mu, addr, currentBalance-amount)
}

// AddBalance adds an amount to an address's native token balance.
func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	currentBalance, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	if amount > math.MaxUint64-currentBalance {
		return ErrBalanceOverflow
	}
	return SetBalance(ctx, mu, addr, currentBalance+amount)
}
