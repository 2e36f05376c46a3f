package program

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/chokosabe/predictchatvm/escrow"
	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/storage"
)

func newTestExecutor(t *testing.T) (*Executor, *mockable.Clock) {
	proc, err := New(DefaultConfig(), logging.NoLog{}, escrow.Ledger{})
	require.NoError(t, err)
	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(testNow))
	return NewExecutor(proc, chaintest.NewInMemoryStore(), clock), clock
}

func TestExecutor_Lifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, clock := newTestExecutor(t)

	authority := codec.CreateAddress(0, ids.GenerateTestID())
	feed := codec.CreateAddress(0, ids.GenerateTestID())
	alice := codec.CreateAddress(0, ids.GenerateTestID())

	_, err := ex.InitializeRoom(ctx, authority, InitializeRoomArgs{
		RoomID: testRoomID, OracleFeed: feed, StakingMint: ids.GenerateTestID(),
	})
	require.NoError(err)

	require.NoError(ex.Mint(ctx, alice, 1_000))
	require.NoError(ex.FundVault(ctx, testRoomID, alice, testStake))
	balance, err := ex.Balance(ctx, alice)
	require.NoError(err)
	require.Equal(uint64(900), balance)

	_, err = ex.StakeAndCommit(ctx, alice, StakeArgs{
		RoomID: testRoomID, Stake: testStake, TargetPrice: testTarget, Expiry: ex.Now() + 100,
	})
	require.NoError(err)
	deposited, err := ex.Deposited(ctx, testRoomID, alice)
	require.NoError(err)
	require.Zero(deposited)

	require.NoError(ex.PublishPrice(ctx, feed, oracle.EncodePrice(60_000)))

	args := SettleArgs{RoomID: testRoomID, Predictor: alice}
	_, err = ex.SettlePrediction(ctx, alice, args, feed)
	require.ErrorIs(err, ErrNotYetExpired)

	clock.Set(time.UnixMilli(testNow + 100))
	settled, err := ex.SettlePrediction(ctx, alice, args, feed)
	require.NoError(err)
	require.Equal(storage.StatusWon, settled.Status)

	stored, err := ex.Prediction(ctx, testRoomID, alice)
	require.NoError(err)
	require.Equal(settled, stored)
}

func TestExecutor_UnpublishedFeedIsMalformed(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, clock := newTestExecutor(t)

	authority := codec.CreateAddress(0, ids.GenerateTestID())
	feed := codec.CreateAddress(0, ids.GenerateTestID())
	_, err := ex.InitializeRoom(ctx, authority, InitializeRoomArgs{
		RoomID: testRoomID, OracleFeed: feed, StakingMint: ids.GenerateTestID(),
	})
	require.NoError(err)
	require.NoError(ex.Mint(ctx, authority, testStake))
	require.NoError(ex.FundVault(ctx, testRoomID, authority, testStake))
	_, err = ex.StakeAndCommit(ctx, authority, StakeArgs{
		RoomID: testRoomID, Stake: testStake, TargetPrice: 1, Expiry: testExpiry,
	})
	require.NoError(err)

	clock.Set(time.UnixMilli(testExpiry))
	_, err = ex.SettlePrediction(ctx, authority, SettleArgs{RoomID: testRoomID, Predictor: authority}, feed)
	require.ErrorIs(err, ErrMalformedOracleData)
}

func TestExecutor_ConcurrentInitializeOnlyOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, _ := newTestExecutor(t)

	var wins atomic.Int32
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := ex.InitializeRoom(ctx, codec.CreateAddress(0, ids.GenerateTestID()), InitializeRoomArgs{
				RoomID:      testRoomID,
				OracleFeed:  codec.CreateAddress(0, ids.GenerateTestID()),
				StakingMint: ids.GenerateTestID(),
			})
			switch {
			case err == nil:
				wins.Add(1)
				return nil
			case KindOf(err) == KindStateConflict:
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(g.Wait())
	require.Equal(int32(1), wins.Load())
}

func TestExecutor_ConcurrentStakes(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, _ := newTestExecutor(t)

	_, err := ex.InitializeRoom(ctx, codec.CreateAddress(0, ids.GenerateTestID()), InitializeRoomArgs{
		RoomID: testRoomID, OracleFeed: codec.CreateAddress(0, ids.GenerateTestID()), StakingMint: ids.GenerateTestID(),
	})
	require.NoError(err)

	const predictors = 12
	addrs := make([]codec.Address, predictors)
	for i := range addrs {
		addrs[i] = codec.CreateAddress(0, ids.GenerateTestID())
		require.NoError(ex.Mint(ctx, addrs[i], 2*testStake))
		require.NoError(ex.FundVault(ctx, testRoomID, addrs[i], 2*testStake))
	}

	// Every predictor races two stakes; exactly one of each pair lands.
	var dupes atomic.Int32
	var g errgroup.Group
	for _, addr := range addrs {
		for j := 0; j < 2; j++ {
			g.Go(func() error {
				_, err := ex.StakeAndCommit(ctx, addr, StakeArgs{
					RoomID: testRoomID, Stake: testStake, TargetPrice: testTarget, Expiry: testExpiry,
				})
				if err != nil {
					if KindOf(err) == KindStateConflict {
						dupes.Add(1)
						return nil
					}
					return fmt.Errorf("stake for %s: %w", addr, err)
				}
				return nil
			})
		}
	}
	require.NoError(g.Wait())
	require.Equal(int32(predictors), dupes.Load())

	for _, addr := range addrs {
		pred, err := ex.Prediction(ctx, testRoomID, addr)
		require.NoError(err)
		require.Equal(testStake, pred.Stake)
		left, err := ex.Deposited(ctx, testRoomID, addr)
		require.NoError(err)
		require.Equal(testStake, left)
	}
}

func TestExecutor_InvalidRoomID(t *testing.T) {
	ex, _ := newTestExecutor(t)
	_, err := ex.InitializeRoom(context.Background(), codec.CreateAddress(0, ids.GenerateTestID()), InitializeRoomArgs{})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}
