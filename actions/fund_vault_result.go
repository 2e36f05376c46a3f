package actions

import (
	"fmt"

	"github.com/ava-labs/hypersdk/codec"

	"github.com/chokosabe/predictchatvm/consts"
)

const MaxFundVaultResultSize = 1 + codec.AddressLen + 2*8

var _ codec.Typed = (*FundVaultResult)(nil)

// FundVaultResult reports the actor's uncommitted vault funds and remaining
// balance after the transfer.
type FundVaultResult struct {
	Vault     codec.Address `serialize:"true" json:"vault"`
	Deposited uint64        `serialize:"true" json:"deposited"`
	Balance   uint64        `serialize:"true" json:"balance"`
}

func (*FundVaultResult) GetTypeID() uint8 {
	return consts.FundVaultID
}

func (r *FundVaultResult) Bytes() []byte {
	return marshal(consts.FundVaultID, r, MaxFundVaultResultSize)
}

func UnmarshalFundVaultResult(b []byte) (codec.Typed, error) {
	r := &FundVaultResult{}
	if err := unmarshal(b, consts.FundVaultID, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal FundVault result: %w", err)
	}
	return r, nil
}
