package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/storage"
)

var (
	ErrFeedNotFound = errors.New("oracle feed not found")
	ErrFeedTooLarge = errors.New("oracle feed data too large")
)

// FeedKey returns the state key holding feed's blob.
func FeedKey(feed codec.Address) []byte {
	return storage.AddressKey(storage.OracleFeedPrefix, feed, storage.OracleFeedChunks)
}

// GetFeed loads the account stored for feed. The blob is returned as stored;
// no size check is applied so the reader decides what is malformed.
func GetFeed(ctx context.Context, im state.Immutable, feed codec.Address) (Account, error) {
	data, err := im.GetValue(ctx, FeedKey(feed))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Account{}, fmt.Errorf("%w: %s", ErrFeedNotFound, feed)
		}
		return Account{}, err
	}
	return Account{Address: feed, Data: data}, nil
}

// SetFeed overwrites feed's blob. Only the feed itself publishes to its
// account; the prediction program never calls this.
func SetFeed(ctx context.Context, mu state.Mutable, feed codec.Address, data []byte) error {
	if len(data) > consts.MaxOracleDataSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrFeedTooLarge, len(data), consts.MaxOracleDataSize)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty blob", ErrMalformedOracleData)
	}
	return mu.Insert(ctx, FeedKey(feed), data)
}
