package program

import (
	"fmt"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/escrow"
	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/pda"
	"github.com/chokosabe/predictchatvm/storage"
)

// InitializeRoomKeys returns the state InitializeRoom touches.
func InitializeRoomKeys(roomID string) (state.Keys, error) {
	room, err := pda.Room(roomID)
	if err != nil {
		return nil, err
	}
	return state.Keys{
		string(storage.RoomKey(room.Codec())): state.All,
	}, nil
}

// StakeAndCommitKeys returns the state StakeAndCommit touches for predictor.
func StakeAndCommitKeys(roomID string, predictor codec.Address) (state.Keys, error) {
	room, err := pda.Room(roomID)
	if err != nil {
		return nil, err
	}
	vault, err := pda.Vault(roomID)
	if err != nil {
		return nil, err
	}
	pred, err := pda.Prediction(room.Codec(), predictor)
	if err != nil {
		return nil, err
	}
	return state.Keys{
		string(storage.RoomKey(room.Codec())):        state.Read,
		string(storage.PredictionKey(pred.Codec())):  state.All,
		string(escrow.Key(vault.Codec(), predictor)): state.Read | state.Write,
	}, nil
}

// SettlePredictionKeys returns the state SettlePrediction touches when
// settling predictor's prediction against feed.
func SettlePredictionKeys(roomID string, predictor, feed codec.Address) (state.Keys, error) {
	room, err := pda.Room(roomID)
	if err != nil {
		return nil, err
	}
	pred, err := pda.Prediction(room.Codec(), predictor)
	if err != nil {
		return nil, err
	}
	return state.Keys{
		string(storage.RoomKey(room.Codec())):       state.Read,
		string(storage.PredictionKey(pred.Codec())): state.Read | state.Write,
		string(oracle.FeedKey(feed)):                state.Read,
	}, nil
}

// FundVaultKeys returns the state touched when depositor funds roomID's
// vault.
func FundVaultKeys(roomID string, depositor codec.Address) (state.Keys, error) {
	vault, err := pda.Vault(roomID)
	if err != nil {
		return nil, err
	}
	return state.Keys{
		string(storage.BalanceKey(depositor)):        state.Read | state.Write,
		string(escrow.Key(vault.Codec(), depositor)): state.All,
	}, nil
}

// PublishPriceKeys returns the state touched when feed publishes a blob.
func PublishPriceKeys(feed codec.Address) state.Keys {
	return state.Keys{
		string(oracle.FeedKey(feed)): state.All,
	}
}

// CheckRoomID rejects ids that cannot derive a room address.
func CheckRoomID(roomID string) error {
	if _, err := pda.RoomSeeds(roomID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}
