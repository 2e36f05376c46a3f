package actions

import (
	"fmt"

	"github.com/ava-labs/hypersdk/codec"

	"github.com/chokosabe/predictchatvm/consts"
)

const MaxSettlePredictionResultSize = 1 + codec.AddressLen + 8 + 1

var _ codec.Typed = (*SettlePredictionResult)(nil)

// SettlePredictionResult reports the price the prediction settled at and
// whether it won.
type SettlePredictionResult struct {
	Prediction codec.Address `serialize:"true" json:"prediction"`
	Price      int64         `serialize:"true" json:"price"`
	Won        bool          `serialize:"true" json:"won"`
}

func (*SettlePredictionResult) GetTypeID() uint8 {
	return consts.SettlePredictionID
}

func (r *SettlePredictionResult) Bytes() []byte {
	return marshal(consts.SettlePredictionID, r, MaxSettlePredictionResultSize)
}

func UnmarshalSettlePredictionResult(b []byte) (codec.Typed, error) {
	r := &SettlePredictionResult{}
	if err := unmarshal(b, consts.SettlePredictionID, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal SettlePrediction result: %w", err)
	}
	return r, nil
}
