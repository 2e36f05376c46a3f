package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/escrow"
	"github.com/chokosabe/predictchatvm/pda"
	"github.com/chokosabe/predictchatvm/program"
	"github.com/chokosabe/predictchatvm/storage"
)

var _ chain.Action = (*FundVault)(nil)

// FundVault moves Amount of the actor's balance into the vault of RoomID.
// The room need not exist yet; the vault address depends only on the id.
type FundVault struct {
	RoomID string `serialize:"true" json:"roomId"`
	Amount uint64 `serialize:"true" json:"amount"`
}

func (*FundVault) GetTypeID() uint8 {
	return consts.FundVaultID
}

func (f *FundVault) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	keys, err := program.FundVaultKeys(f.RoomID, actor)
	if err != nil {
		return state.Keys{}
	}
	return keys
}

func (f *FundVault) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	vault, err := pda.Vault(f.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", program.ErrInvalidConfiguration, err)
	}
	if err := escrow.Fund(ctx, mu, vault.Codec(), actor, f.Amount); err != nil {
		return nil, err
	}
	deposited, err := escrow.Deposited(ctx, mu, vault.Codec(), actor)
	if err != nil {
		return nil, err
	}
	balance, err := storage.GetBalance(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	result := &FundVaultResult{
		Vault:     vault.Codec(),
		Deposited: deposited,
		Balance:   balance,
	}
	return result.Bytes(), nil
}

func (*FundVault) ComputeUnits(chain.Rules) uint64 {
	return FundVaultComputeUnits
}

func (*FundVault) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

func (f *FundVault) Bytes() []byte {
	return marshal(consts.FundVaultID, f, consts.MaxActionSize)
}

func UnmarshalFundVault(b []byte) (chain.Action, error) {
	f := &FundVault{}
	if err := unmarshal(b, consts.FundVaultID, f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal FundVault action: %w", err)
	}
	return f, nil
}
