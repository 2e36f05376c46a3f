package settlement

import (
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"

	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/storage"
)

func fixtures() (*storage.Room, *storage.Prediction) {
	room := &storage.Room{
		ID:          "r1",
		Address:     codec.CreateAddress(0x7f, ids.GenerateTestID()),
		OracleFeed:  codec.CreateAddress(0, ids.GenerateTestID()),
		StakingMint: ids.GenerateTestID(),
		Vault:       codec.CreateAddress(0x7f, ids.GenerateTestID()),
	}
	pred := &storage.Prediction{
		Address:     codec.CreateAddress(0x7f, ids.GenerateTestID()),
		Room:        room.Address,
		Predictor:   codec.CreateAddress(0, ids.GenerateTestID()),
		Stake:       100,
		TargetPrice: 50_000,
		Expiry:      1_100,
		CreatedAt:   1_000,
	}
	return room, pred
}

func TestDecide(t *testing.T) {
	tests := []struct {
		price, target int64
		want          storage.Status
	}{
		{60_000, 50_000, storage.StatusWon},
		{50_000, 50_000, storage.StatusWon},
		{49_999, 50_000, storage.StatusLost},
		{-10, -20, storage.StatusWon},
		{math.MinInt64, math.MaxInt64, storage.StatusLost},
		{math.MaxInt64, math.MinInt64, storage.StatusWon},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Decide(tc.price, tc.target), "price %d target %d", tc.price, tc.target)
		// Repeated calls give the same answer.
		require.Equal(t, Decide(tc.price, tc.target), Decide(tc.price, tc.target))
	}
}

func TestSettle_Won(t *testing.T) {
	require := require.New(t)
	room, pred := fixtures()
	feed := oracle.Account{Address: room.OracleFeed, Data: oracle.EncodePrice(60_000)}

	settled, err := Settle(room, pred, feed, 1_100)
	require.NoError(err)
	require.Equal(storage.StatusWon, settled.Status)
	require.True(settled.Won())
	require.Equal(int64(1_100), settled.SettledAt)
	require.Equal(int64(60_000), settled.SettledPrice)

	// Input untouched.
	require.Equal(storage.StatusOpen, pred.Status)
	require.Zero(pred.SettledAt)
}

func TestSettle_Lost(t *testing.T) {
	require := require.New(t)
	room, pred := fixtures()
	feed := oracle.Account{Address: room.OracleFeed, Data: oracle.EncodePrice(40_000)}

	settled, err := Settle(room, pred, feed, 5_000)
	require.NoError(err)
	require.Equal(storage.StatusLost, settled.Status)
	require.True(settled.Settled())
	require.False(settled.Won())
}

func TestSettle_Preconditions(t *testing.T) {
	room, open := fixtures()
	stranger := codec.CreateAddress(0, ids.GenerateTestID())
	settled := *open
	settled.Status = storage.StatusLost
	settled.SettledAt = 1_200

	tests := []struct {
		name string
		pred *storage.Prediction
		feed oracle.Account
		now  int64
		err  error
	}{
		{
			name: "MismatchBeatsExpiry",
			pred: open,
			feed: oracle.Account{Address: stranger, Data: oracle.EncodePrice(1)},
			now:  0,
			err:  oracle.ErrOracleMismatch,
		},
		{
			name: "ExpiryBeatsSettled",
			pred: &settled,
			feed: oracle.Account{Address: room.OracleFeed, Data: oracle.EncodePrice(1)},
			now:  1_099,
			err:  ErrNotYetExpired,
		},
		{
			name: "SettledBeatsMalformed",
			pred: &settled,
			feed: oracle.Account{Address: room.OracleFeed, Data: []byte{1}},
			now:  1_100,
			err:  ErrAlreadySettled,
		},
		{
			name: "Malformed",
			pred: open,
			feed: oracle.Account{Address: room.OracleFeed, Data: []byte{1, 2, 3}},
			now:  1_100,
			err:  oracle.ErrMalformedOracleData,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Settle(room, tc.pred, tc.feed, tc.now)
			require.ErrorIs(t, err, tc.err)
			require.Nil(t, got)
		})
	}
}

func TestSettle_RoomMismatch(t *testing.T) {
	room, pred := fixtures()
	pred.Room = codec.CreateAddress(0x7f, ids.GenerateTestID())
	_, err := Settle(room, pred, oracle.Account{Address: room.OracleFeed, Data: oracle.EncodePrice(1)}, 2_000)
	require.ErrorIs(t, err, ErrRoomMismatch)
}
