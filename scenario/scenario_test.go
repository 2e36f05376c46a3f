package scenario

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/stretchr/testify/require"

	"github.com/chokosabe/predictchatvm/genesis"
	"github.com/chokosabe/predictchatvm/program"
	"github.com/chokosabe/predictchatvm/storage"
)

func newRunner(t *testing.T) *Runner {
	r, err := NewRunner(program.DefaultConfig(), logging.NoLog{}, chaintest.NewInMemoryStore())
	require.NoError(t, err)
	return r
}

func TestRun_RoomLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	script, err := LoadFile("testdata/room_lifecycle.json")
	require.NoError(err)

	r := newRunner(t)
	steps, err := r.Run(ctx, script)
	require.NoError(err)
	require.Len(steps, len(script.Ops))

	alice, err := r.Executor().Prediction(ctx, "r1", genesis.NamedAddress("alice"))
	require.NoError(err)
	require.Equal(storage.StatusWon, alice.Status)
	require.Equal(int64(60000), alice.SettledPrice)

	bob, err := r.Executor().Prediction(ctx, "r1", genesis.NamedAddress("bob"))
	require.NoError(err)
	require.Equal(storage.StatusLost, bob.Status)

	bal, err := r.Executor().Balance(ctx, genesis.NamedAddress("alice"))
	require.NoError(err)
	require.Equal(uint64(900), bal)
}

func TestRun_StopsOnFailedExpectation(t *testing.T) {
	require := require.New(t)
	script := &Script{Ops: []Op{
		{Op: OpInit, Actor: "operator", Room: "r1", Oracle: "feed", Mint: "m"},
		{Op: OpStake, Actor: "alice", Room: "r1", Amount: 1, Target: 1, Expiry: 10},
		{Op: OpInit, Actor: "operator", Room: "r2", Oracle: "feed", Mint: "m"},
	}}

	steps, err := newRunner(t).Run(context.Background(), script)
	require.ErrorIs(err, ErrExpectationFailed)
	require.ErrorIs(err, program.ErrVaultNotFunded)
	require.Len(steps, 2)
}

func TestRun_ClockRegression(t *testing.T) {
	script := &Script{Ops: []Op{
		{Op: OpMint, At: 100, Actor: "alice", Amount: 1},
		{Op: OpMint, At: 50, Actor: "alice", Amount: 1},
	}}
	_, err := newRunner(t).Run(context.Background(), script)
	require.ErrorIs(t, err, ErrClockRegression)
}

func TestRun_UnknownNames(t *testing.T) {
	require := require.New(t)

	_, err := newRunner(t).Run(context.Background(), &Script{Ops: []Op{{Op: "withdraw"}}})
	require.ErrorIs(err, ErrUnknownOp)

	_, err = newRunner(t).Run(context.Background(), &Script{Ops: []Op{
		{Op: OpMint, Actor: "alice", Amount: 1, ExpectError: "Nope"},
	}})
	require.ErrorIs(err, ErrUnknownError)
}

func TestErrorNames(t *testing.T) {
	names := ErrorNames()
	require.Contains(t, names, "NotYetExpired")
	require.IsIncreasing(t, names)
}
