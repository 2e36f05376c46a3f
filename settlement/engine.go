// Package settlement decides predictions. It holds no state: callers load
// the records, call Settle and persist what it returns.
package settlement

import (
	"errors"
	"fmt"

	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/storage"
)

var (
	ErrNotYetExpired  = errors.New("prediction not yet expired")
	ErrAlreadySettled = errors.New("prediction already settled")
	ErrRoomMismatch   = errors.New("prediction belongs to a different room")
)

// Decide returns the outcome for a prediction targeting target when the
// oracle reports price. A price at or above the target wins; there is no
// below-target or spread mode.
func Decide(price, target int64) storage.Status {
	if price >= target {
		return storage.StatusWon
	}
	return storage.StatusLost
}

// Settle checks, in order, the oracle source, expiry and settled flag, then
// decodes the feed and returns the settled copy of pred. pred itself is
// never modified.
func Settle(room *storage.Room, pred *storage.Prediction, feed oracle.Account, now int64) (*storage.Prediction, error) {
	if pred.Room != room.Address {
		return nil, fmt.Errorf("%w: prediction %s references %s, not %s", ErrRoomMismatch, pred.Address, pred.Room, room.Address)
	}
	if err := feed.VerifySource(room.OracleFeed); err != nil {
		return nil, err
	}
	if now < pred.Expiry {
		return nil, fmt.Errorf("%w: now %d, expiry %d", ErrNotYetExpired, now, pred.Expiry)
	}
	if pred.Settled() {
		return nil, fmt.Errorf("%w: prediction %s is %s", ErrAlreadySettled, pred.Address, pred.Status)
	}
	price, err := feed.Price()
	if err != nil {
		return nil, err
	}

	settled := *pred
	settled.Status = Decide(price, pred.TargetPrice)
	settled.SettledAt = now
	settled.SettledPrice = price
	return &settled, nil
}
