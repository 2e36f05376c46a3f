package actions

import (
	"fmt"

	"github.com/ava-labs/hypersdk/codec"

	"github.com/chokosabe/predictchatvm/consts"
)

const MaxStakeAndCommitResultSize = 1 + codec.AddressLen + 2*8

var _ codec.Typed = (*StakeAndCommitResult)(nil)

type StakeAndCommitResult struct {
	Prediction codec.Address `serialize:"true" json:"prediction"`
	Stake      uint64        `serialize:"true" json:"stake"`
	Expiry     int64         `serialize:"true" json:"expiry"`
}

func (*StakeAndCommitResult) GetTypeID() uint8 {
	return consts.StakeAndCommitID
}

func (r *StakeAndCommitResult) Bytes() []byte {
	return marshal(consts.StakeAndCommitID, r, MaxStakeAndCommitResultSize)
}

func UnmarshalStakeAndCommitResult(b []byte) (codec.Typed, error) {
	r := &StakeAndCommitResult{}
	if err := unmarshal(b, consts.StakeAndCommitID, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal StakeAndCommit result: %w", err)
	}
	return r, nil
}
