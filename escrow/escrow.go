// Package escrow keeps the vault funding ledger: how much each depositor has
// placed into a room's vault and not yet committed to a prediction. The
// prediction program only reads and consumes these entries; funds enter the
// ledger through Fund (or genesis) outside of it.
package escrow

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/storage"
)

var (
	ErrInsufficientFundsInEscrow = errors.New("insufficient funds in escrow")
	ErrAmountCannotBeZero        = errors.New("amount cannot be zero")
	ErrEscrowOverflow            = errors.New("escrow amount overflow")
)

// Key returns the ledger entry for depositor's funds in vault.
// Key: EscrowPrefix | vault | depositor | chunks
func Key(vault, depositor codec.Address) []byte {
	key := make([]byte, 1+2*codec.AddressLen+consts.Uint16Len)
	key[0] = storage.EscrowPrefix
	copy(key[1:], vault[:])
	copy(key[1+codec.AddressLen:], depositor[:])
	binary.BigEndian.PutUint16(key[1+2*codec.AddressLen:], storage.EscrowChunks)
	return key
}

// Deposited returns the uncommitted amount depositor holds in vault.
func Deposited(ctx context.Context, im state.Immutable, vault, depositor codec.Address) (uint64, error) {
	val, err := im.GetValue(ctx, Key(vault, depositor))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get escrowed amount for vault %s, depositor %s: %w", vault, depositor, err)
	}
	amount, err := database.ParseUInt64(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse escrowed amount for vault %s, depositor %s: %w", vault, depositor, err)
	}
	return amount, nil
}

// Credit records amount as deposited by depositor into vault.
func Credit(ctx context.Context, mu state.Mutable, vault, depositor codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrAmountCannotBeZero
	}
	current, err := Deposited(ctx, mu, vault, depositor)
	if err != nil {
		return err
	}
	if amount > math.MaxUint64-current {
		return ErrEscrowOverflow
	}
	return mu.Insert(ctx, Key(vault, depositor), database.PackUInt64(current+amount))
}

// Commit consumes amount of depositor's funds in vault. The entry is removed
// once it reaches zero.
func Commit(ctx context.Context, mu state.Mutable, vault, depositor codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrAmountCannotBeZero
	}
	current, err := Deposited(ctx, mu, vault, depositor)
	if err != nil {
		return err
	}
	if current < amount {
		return fmt.Errorf("%w: vault %s holds %d from %s, needs %d",
			ErrInsufficientFundsInEscrow, vault, current, depositor, amount)
	}
	key := Key(vault, depositor)
	if current == amount {
		if err := mu.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove zeroed escrow entry for vault %s: %w", vault, err)
		}
		return nil
	}
	return mu.Insert(ctx, key, database.PackUInt64(current-amount))
}

// Fund moves amount of depositor's native balance into vault.
func Fund(ctx context.Context, mu state.Mutable, vault, depositor codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrAmountCannotBeZero
	}
	balance, err := storage.GetBalance(ctx, mu, depositor)
	if err != nil {
		return fmt.Errorf("failed to get balance of %s: %w", depositor, err)
	}
	if balance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", storage.ErrInsufficientBalance, depositor, balance, amount)
	}
	if err := storage.SetBalance(ctx, mu, depositor, balance-amount); err != nil {
		return fmt.Errorf("failed to debit %s: %w", depositor, err)
	}
	if err := Credit(ctx, mu, vault, depositor, amount); err != nil {
		// Best-effort revert of the debit.
		if revertErr := storage.SetBalance(ctx, mu, depositor, balance); revertErr != nil {
			return fmt.Errorf("failed to credit vault %s (and failed to revert balance of %s): %w (revert error: %v)", vault, depositor, err, revertErr)
		}
		return fmt.Errorf("failed to credit vault %s (balance of %s reverted): %w", vault, depositor, err)
	}
	return nil
}

// Ledger exposes the escrow entries as the funding signal the prediction
// program trusts.
type Ledger struct{}

// Available returns depositor's uncommitted funds in vault.
func (Ledger) Available(ctx context.Context, im state.Immutable, vault, depositor codec.Address) (uint64, error) {
	return Deposited(ctx, im, vault, depositor)
}

// Commit consumes amount of depositor's funds in vault.
func (Ledger) Commit(ctx context.Context, mu state.Mutable, vault, depositor codec.Address, amount uint64) error {
	return Commit(ctx, mu, vault, depositor, amount)
}
