package actions

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/escrow"
	"github.com/chokosabe/predictchatvm/program"
)

// ActionRegistry maps action type IDs to their structs.
var ActionRegistry = map[uint8]chain.Action{
	consts.InitializeRoomID:   &InitializeRoom{},
	consts.StakeAndCommitID:   &StakeAndCommit{},
	consts.SettlePredictionID: &SettlePrediction{},
	consts.PublishPriceID:     &PublishPrice{},
	consts.FundVaultID:        &FundVault{},
}

// Unmarshalers maps action type IDs to their decoders.
var Unmarshalers = map[uint8]func([]byte) (chain.Action, error){
	consts.InitializeRoomID:   UnmarshalInitializeRoom,
	consts.StakeAndCommitID:   UnmarshalStakeAndCommit,
	consts.SettlePredictionID: UnmarshalSettlePrediction,
	consts.PublishPriceID:     UnmarshalPublishPrice,
	consts.FundVaultID:        UnmarshalFundVault,
}

var defaultProcessor = func() *program.Processor {
	proc, err := program.New(program.DefaultConfig(), logging.NoLog{}, escrow.Ledger{})
	if err != nil {
		panic(err)
	}
	return proc
}()

// processorFor returns the processor for the chain's rules. A program.Config
// stored under consts.ProgramConfigKey overrides the defaults.
func processorFor(rules chain.Rules) (*program.Processor, error) {
	if rules == nil {
		return defaultProcessor, nil
	}
	v, ok := rules.FetchCustom(consts.ProgramConfigKey)
	if !ok || v == nil {
		return defaultProcessor, nil
	}
	cfg, ok := v.(program.Config)
	if !ok {
		return nil, fmt.Errorf("%w: %T under %s", ErrUnexpectedConfig, v, consts.ProgramConfigKey)
	}
	return program.New(cfg, logging.NoLog{}, escrow.Ledger{})
}

// marshal packs typeID followed by the serialized fields of v.
func marshal(typeID uint8, v any, maxSize int) []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, maxSize),
		MaxSize: maxSize,
	}
	p.PackByte(typeID)
	if err := codec.LinearCodec.MarshalInto(v, p); err != nil {
		panic(fmt.Errorf("failed to marshal type %d: %w", typeID, err))
	}
	return p.Bytes
}

// unmarshal checks the leading type byte of b and decodes the rest into v.
func unmarshal(b []byte, typeID uint8, v any) error {
	if len(b) == 0 {
		return ErrUnmarshalEmpty
	}
	if b[0] != typeID {
		return fmt.Errorf("%w: %d != %d", ErrUnexpectedTypeID, b[0], typeID)
	}
	return codec.LinearCodec.UnmarshalFrom(&wrappers.Packer{Bytes: b[1:]}, v)
}

