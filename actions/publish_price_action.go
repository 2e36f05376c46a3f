package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/program"
)

var _ chain.Action = (*PublishPrice)(nil)

// PublishPrice replaces the blob held by the actor's oracle feed account.
// Rooms bound to the actor settle against the latest blob.
type PublishPrice struct {
	Data []byte `serialize:"true" json:"data"`
}

func (*PublishPrice) GetTypeID() uint8 {
	return consts.PublishPriceID
}

func (*PublishPrice) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return program.PublishPriceKeys(actor)
}

func (p *PublishPrice) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	if err := oracle.SetFeed(ctx, mu, actor, p.Data); err != nil {
		return nil, err
	}
	result := &PublishPriceResult{
		Feed: actor,
		Size: uint16(len(p.Data)),
	}
	return result.Bytes(), nil
}

func (*PublishPrice) ComputeUnits(chain.Rules) uint64 {
	return PublishPriceComputeUnits
}

func (*PublishPrice) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

func (p *PublishPrice) Bytes() []byte {
	return marshal(consts.PublishPriceID, p, consts.MaxActionSize)
}

func UnmarshalPublishPrice(b []byte) (chain.Action, error) {
	p := &PublishPrice{}
	if err := unmarshal(b, consts.PublishPriceID, p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal PublishPrice action: %w", err)
	}
	if len(p.Data) > consts.MaxOracleDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrOracleDataTooLarge, len(p.Data))
	}
	return p, nil
}
