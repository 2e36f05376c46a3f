package escrow

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"

	"github.com/chokosabe/predictchatvm/storage"
)

func TestCommit_Success_Partial(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())

	// Setup: Put initial funds into escrow
	require.NoError(mu.Insert(ctx, Key(vault, depositor), database.PackUInt64(1000)))

	require.NoError(Commit(ctx, mu, vault, depositor, 400))

	remaining, err := Deposited(ctx, mu, vault, depositor)
	require.NoError(err)
	require.Equal(uint64(600), remaining)
}

func TestCommit_Success_All(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(Credit(ctx, mu, vault, depositor, 500))

	require.NoError(Commit(ctx, mu, vault, depositor, 500))

	remaining, err := Deposited(ctx, mu, vault, depositor)
	require.NoError(err)
	require.Zero(remaining)

	_, err = mu.GetValue(ctx, Key(vault, depositor))
	require.ErrorIs(err, database.ErrNotFound, "escrow key should be removed from state")
}

func TestCommit_Error_InsufficientFunds(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(Credit(ctx, mu, vault, depositor, 100))

	err := Commit(ctx, mu, vault, depositor, 101)
	require.ErrorIs(err, ErrInsufficientFundsInEscrow)

	after, err := Deposited(ctx, mu, vault, depositor)
	require.NoError(err)
	require.Equal(uint64(100), after, "escrow amount should not change")
}

func TestCommit_Error_AmountIsZero(t *testing.T) {
	mu := chaintest.NewInMemoryStore()
	err := Commit(context.Background(), mu, codec.EmptyAddress, codec.EmptyAddress, 0)
	require.ErrorIs(t, err, ErrAmountCannotBeZero)
}

func TestDepositsAreAttributedPerDepositor(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	alice := codec.CreateAddress(0, ids.GenerateTestID())
	bob := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(Credit(ctx, mu, vault, alice, 100))

	got, err := Ledger{}.Available(ctx, mu, vault, bob)
	require.NoError(err)
	require.Zero(got)

	require.ErrorIs(Ledger{}.Commit(ctx, mu, vault, bob, 1), ErrInsufficientFundsInEscrow)
	require.NoError(Ledger{}.Commit(ctx, mu, vault, alice, 100))
}

func TestCredit_Overflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(Credit(ctx, mu, vault, depositor, ^uint64(0)))
	require.ErrorIs(Credit(ctx, mu, vault, depositor, 1), ErrEscrowOverflow)
}

func TestFund_Success(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(storage.SetBalance(ctx, mu, depositor, 1000))

	require.NoError(Fund(ctx, mu, vault, depositor, 300))

	balance, err := storage.GetBalance(ctx, mu, depositor)
	require.NoError(err)
	require.Equal(uint64(700), balance)

	deposited, err := Deposited(ctx, mu, vault, depositor)
	require.NoError(err)
	require.Equal(uint64(300), deposited)
}

func TestFund_Error_InsufficientBalance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(storage.SetBalance(ctx, mu, depositor, 10))

	err := Fund(ctx, mu, vault, depositor, 11)
	require.ErrorIs(err, storage.ErrInsufficientBalance)

	balance, err := storage.GetBalance(ctx, mu, depositor)
	require.NoError(err)
	require.Equal(uint64(10), balance)

	deposited, err := Deposited(ctx, mu, vault, depositor)
	require.NoError(err)
	require.Zero(deposited)
}

func TestFund_RevertsBalanceOnCreditFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	vault := codec.CreateAddress(0x7f, ids.GenerateTestID())
	depositor := codec.CreateAddress(0, ids.GenerateTestID())
	require.NoError(storage.SetBalance(ctx, mu, depositor, 10))
	require.NoError(Credit(ctx, mu, vault, depositor, ^uint64(0)))

	err := Fund(ctx, mu, vault, depositor, 5)
	require.ErrorIs(err, ErrEscrowOverflow)

	balance, err := storage.GetBalance(ctx, mu, depositor)
	require.NoError(err)
	require.Equal(uint64(10), balance)
}
