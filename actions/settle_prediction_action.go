package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/program"
)

var _ chain.Action = (*SettlePrediction)(nil)

// SettlePrediction resolves Predictor's prediction in the room against the
// blob OracleFeed has published. The actor must be the predictor or the
// room authority.
type SettlePrediction struct {
	RoomID     string        `serialize:"true" json:"roomId"`
	Predictor  codec.Address `serialize:"true" json:"predictor"`
	OracleFeed codec.Address `serialize:"true" json:"oracleFeed"`
}

func (*SettlePrediction) GetTypeID() uint8 {
	return consts.SettlePredictionID
}

func (s *SettlePrediction) StateKeys(codec.Address, ids.ID) state.Keys {
	keys, err := program.SettlePredictionKeys(s.RoomID, s.Predictor, s.OracleFeed)
	if err != nil {
		return state.Keys{}
	}
	return keys
}

func (s *SettlePrediction) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	proc, err := processorFor(rules)
	if err != nil {
		return nil, err
	}
	if err := program.CheckRoomID(s.RoomID); err != nil {
		return nil, err
	}
	feed, err := program.LoadOracle(ctx, mu, s.OracleFeed)
	if err != nil {
		return nil, err
	}
	pred, err := proc.SettlePrediction(ctx, mu, timestamp, actor, program.SettleArgs{
		RoomID:    s.RoomID,
		Predictor: s.Predictor,
	}, feed)
	if err != nil {
		return nil, err
	}
	result := &SettlePredictionResult{
		Prediction: pred.Address,
		Price:      pred.SettledPrice,
		Won:        pred.Won(),
	}
	return result.Bytes(), nil
}

func (*SettlePrediction) ComputeUnits(chain.Rules) uint64 {
	return SettlePredictionComputeUnits
}

func (*SettlePrediction) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

func (s *SettlePrediction) Bytes() []byte {
	return marshal(consts.SettlePredictionID, s, consts.MaxActionSize)
}

func UnmarshalSettlePrediction(b []byte) (chain.Action, error) {
	s := &SettlePrediction{}
	if err := unmarshal(b, consts.SettlePredictionID, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal SettlePrediction action: %w", err)
	}
	return s, nil
}
