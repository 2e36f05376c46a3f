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

var _ chain.Action = (*InitializeRoom)(nil)

// InitializeRoom creates a room bound to an oracle feed and a staking mint.
// The actor becomes the room authority.
type InitializeRoom struct {
	RoomID      string        `serialize:"true" json:"roomId"`
	OracleFeed  codec.Address `serialize:"true" json:"oracleFeed"`
	StakingMint ids.ID        `serialize:"true" json:"stakingMint"`
}

func (*InitializeRoom) GetTypeID() uint8 {
	return consts.InitializeRoomID
}

func (i *InitializeRoom) StateKeys(codec.Address, ids.ID) state.Keys {
	keys, err := program.InitializeRoomKeys(i.RoomID)
	if err != nil {
		// Execute rejects the id before touching state.
		return state.Keys{}
	}
	return keys
}

func (i *InitializeRoom) Execute(
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
	room, err := proc.InitializeRoom(ctx, mu, timestamp, actor, program.InitializeRoomArgs{
		RoomID:      i.RoomID,
		OracleFeed:  i.OracleFeed,
		StakingMint: i.StakingMint,
	})
	if err != nil {
		return nil, err
	}
	result := &InitializeRoomResult{
		Room:      room.Address,
		Bump:      room.Bump,
		Vault:     room.Vault,
		VaultBump: room.VaultBump,
	}
	return result.Bytes(), nil
}

func (*InitializeRoom) ComputeUnits(chain.Rules) uint64 {
	return InitializeRoomComputeUnits
}

func (*InitializeRoom) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

func (i *InitializeRoom) Bytes() []byte {
	return marshal(consts.InitializeRoomID, i, consts.MaxActionSize)
}

func UnmarshalInitializeRoom(b []byte) (chain.Action, error) {
	i := &InitializeRoom{}
	if err := unmarshal(b, consts.InitializeRoomID, i); err != nil {
		return nil, fmt.Errorf("failed to unmarshal InitializeRoom action: %w", err)
	}
	return i, nil
}
