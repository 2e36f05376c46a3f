package actions

import (
	"fmt"

	"github.com/ava-labs/hypersdk/codec"

	"github.com/chokosabe/predictchatvm/consts"
)

// MaxInitializeRoomResultSize: type (1) + 2 addresses (66) + 2 bumps (2).
const MaxInitializeRoomResultSize = 1 + 2*codec.AddressLen + 2

var _ codec.Typed = (*InitializeRoomResult)(nil)

// InitializeRoomResult carries the addresses derived for the new room.
type InitializeRoomResult struct {
	Room      codec.Address `serialize:"true" json:"room"`
	Bump      uint8         `serialize:"true" json:"bump"`
	Vault     codec.Address `serialize:"true" json:"vault"`
	VaultBump uint8         `serialize:"true" json:"vaultBump"`
}

func (*InitializeRoomResult) GetTypeID() uint8 {
	return consts.InitializeRoomID
}

func (r *InitializeRoomResult) Bytes() []byte {
	return marshal(consts.InitializeRoomID, r, MaxInitializeRoomResultSize)
}

func UnmarshalInitializeRoomResult(b []byte) (codec.Typed, error) {
	r := &InitializeRoomResult{}
	if err := unmarshal(b, consts.InitializeRoomID, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal InitializeRoom result: %w", err)
	}
	return r, nil
}
