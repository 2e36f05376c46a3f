package actions

import (
	"fmt"

	"github.com/ava-labs/hypersdk/codec"

	"github.com/chokosabe/predictchatvm/consts"
)

const MaxPublishPriceResultSize = 1 + codec.AddressLen + 2

var _ codec.Typed = (*PublishPriceResult)(nil)

type PublishPriceResult struct {
	Feed codec.Address `serialize:"true" json:"feed"`
	Size uint16        `serialize:"true" json:"size"`
}

func (*PublishPriceResult) GetTypeID() uint8 {
	return consts.PublishPriceID
}

func (r *PublishPriceResult) Bytes() []byte {
	return marshal(consts.PublishPriceID, r, MaxPublishPriceResultSize)
}

func UnmarshalPublishPriceResult(b []byte) (codec.Typed, error) {
	r := &PublishPriceResult{}
	if err := unmarshal(b, consts.PublishPriceID, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal PublishPrice result: %w", err)
	}
	return r, nil
}
