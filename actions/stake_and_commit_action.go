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

var _ chain.Action = (*StakeAndCommit)(nil)

// StakeAndCommit records the actor's prediction that the oracle price will
// be at least TargetPrice at Expiry (block time, milliseconds). The stake is
// drawn from what the actor has already placed in the room's vault.
type StakeAndCommit struct {
	RoomID      string `serialize:"true" json:"roomId"`
	Stake       uint64 `serialize:"true" json:"stake"`
	TargetPrice int64  `serialize:"true" json:"targetPrice"`
	Expiry      int64  `serialize:"true" json:"expiry"`
}

func (*StakeAndCommit) GetTypeID() uint8 {
	return consts.StakeAndCommitID
}

func (s *StakeAndCommit) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	keys, err := program.StakeAndCommitKeys(s.RoomID, actor)
	if err != nil {
		return state.Keys{}
	}
	return keys
}

func (s *StakeAndCommit) Execute(
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
	pred, err := proc.StakeAndCommit(ctx, mu, timestamp, actor, program.StakeArgs{
		RoomID:      s.RoomID,
		Stake:       s.Stake,
		TargetPrice: s.TargetPrice,
		Expiry:      s.Expiry,
	})
	if err != nil {
		return nil, err
	}
	result := &StakeAndCommitResult{
		Prediction: pred.Address,
		Stake:      pred.Stake,
		Expiry:     pred.Expiry,
	}
	return result.Bytes(), nil
}

func (*StakeAndCommit) ComputeUnits(chain.Rules) uint64 {
	return StakeAndCommitComputeUnits
}

func (*StakeAndCommit) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

func (s *StakeAndCommit) Bytes() []byte {
	return marshal(consts.StakeAndCommitID, s, consts.MaxActionSize)
}

func UnmarshalStakeAndCommit(b []byte) (chain.Action, error) {
	s := &StakeAndCommit{}
	if err := unmarshal(b, consts.StakeAndCommitID, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal StakeAndCommit action: %w", err)
	}
	return s, nil
}
