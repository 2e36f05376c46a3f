package oracle

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func TestDecodePrice(t *testing.T) {
	tests := []struct {
		name  string
		blob  []byte
		price int64
		err   error
	}{
		{"Nil", nil, 0, ErrMalformedOracleData},
		{"SevenBytes", make([]byte, 7), 0, ErrMalformedOracleData},
		{"Exact", EncodePrice(60_000), 60_000, nil},
		{"TrailingIgnored", append(EncodePrice(42), 0xff, 0xff, 0xff), 42, nil},
		{"Negative", EncodePrice(-1), -1, nil},
		{"Max", EncodePrice(math.MaxInt64), math.MaxInt64, nil},
		{"LittleEndian", []byte{0x60, 0xea, 0, 0, 0, 0, 0, 0}, 60_000, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			price, err := DecodePrice(tc.blob)
			require.ErrorIs(err, tc.err)
			require.Equal(tc.price, price)
		})
	}
}

func TestAccountVerifySource(t *testing.T) {
	require := require.New(t)
	feed := codec.CreateAddress(0, ids.GenerateTestID())
	other := codec.CreateAddress(0, ids.GenerateTestID())

	acct := Account{Address: feed, Data: EncodePrice(1)}
	require.NoError(acct.VerifySource(feed))
	require.ErrorIs(acct.VerifySource(other), ErrOracleMismatch)

	price, err := acct.Price()
	require.NoError(err)
	require.Equal(int64(1), price)
}

func TestFeedStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()
	feed := codec.CreateAddress(0, ids.GenerateTestID())

	_, err := GetFeed(ctx, st, feed)
	require.ErrorIs(err, ErrFeedNotFound)

	require.NoError(SetFeed(ctx, st, feed, EncodePrice(50_000)))
	acct, err := GetFeed(ctx, st, feed)
	require.NoError(err)
	require.Equal(feed, acct.Address)
	require.True(bytes.Equal(EncodePrice(50_000), acct.Data))

	require.ErrorIs(SetFeed(ctx, st, feed, make([]byte, 257)), ErrFeedTooLarge)
	require.ErrorIs(SetFeed(ctx, st, feed, nil), ErrMalformedOracleData)
}
