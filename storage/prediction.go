package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
)

// Status is the settlement state of a prediction. The outcome only exists
// once a prediction leaves Open, so "unsettled but won" is unrepresentable.
type Status uint8

const (
	StatusOpen Status = 0
	StatusWon  Status = 1
	StatusLost Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusWon:
		return "Won"
	case StatusLost:
		return "Lost"
	default:
		return fmt.Sprintf("UnknownStatus:%d", s)
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s <= StatusLost
}

const (
	predictionRecordTag byte = 'P'

	// PredictionSize is the fixed encoded length of a Prediction record:
	// tag | version | address | room | predictor | stake | target | expiry |
	// created at | status | settled at | settled price
	PredictionSize = 1 + 1 + 3*codec.AddressLen + 4*wrappers.LongLen + 1 + 2*wrappers.LongLen
)

var ErrInvalidPrediction = errors.New("invalid prediction")

// Prediction is one predictor's staked price bet within a room.
type Prediction struct {
	Address     codec.Address `json:"address"`
	Room        codec.Address `json:"room"`
	Predictor   codec.Address `json:"predictor"`
	Stake       uint64        `json:"stake"`
	TargetPrice int64         `json:"targetPrice"`
	Expiry      int64         `json:"expiry"`
	CreatedAt   int64         `json:"createdAt"`
	Status      Status        `json:"status"`

	// Set together with Status on settlement.
	SettledAt    int64 `json:"settledAt"`
	SettledPrice int64 `json:"settledPrice"`
}

// Settled reports whether the prediction reached its terminal state.
func (p *Prediction) Settled() bool {
	return p.Status != StatusOpen
}

// Won reports whether the prediction settled as a win.
func (p *Prediction) Won() bool {
	return p.Status == StatusWon
}

// Validate checks the record invariants.
func (p *Prediction) Validate() error {
	switch {
	case p.Stake == 0:
		return fmt.Errorf("%w: zero stake", ErrInvalidPrediction)
	case p.Expiry <= p.CreatedAt:
		return fmt.Errorf("%w: expiry %d not after creation %d", ErrInvalidPrediction, p.Expiry, p.CreatedAt)
	case !p.Status.Valid():
		return fmt.Errorf("%w: status %s", ErrInvalidPrediction, p.Status)
	case p.Status == StatusOpen && (p.SettledAt != 0 || p.SettledPrice != 0):
		return fmt.Errorf("%w: open prediction carries settlement data", ErrInvalidPrediction)
	}
	return nil
}

// PredictionKey returns the state key of the prediction stored at addr.
func PredictionKey(addr codec.Address) []byte {
	return AddressKey(PredictionPrefix, addr, PredictionChunks)
}

// MarshalPrediction encodes pr into its fixed layout.
func MarshalPrediction(pr *Prediction) ([]byte, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	p := &wrappers.Packer{Bytes: make([]byte, 0, PredictionSize), MaxSize: PredictionSize}
	p.PackByte(predictionRecordTag)
	p.PackByte(recordVersion)
	p.PackFixedBytes(pr.Address[:])
	p.PackFixedBytes(pr.Room[:])
	p.PackFixedBytes(pr.Predictor[:])
	p.PackLong(pr.Stake)
	p.PackLong(uint64(pr.TargetPrice))
	p.PackLong(uint64(pr.Expiry))
	p.PackLong(uint64(pr.CreatedAt))
	p.PackByte(uint8(pr.Status))
	p.PackLong(uint64(pr.SettledAt))
	p.PackLong(uint64(pr.SettledPrice))
	if p.Errored() {
		return nil, fmt.Errorf("failed to pack prediction %s: %w", pr.Address, p.Err)
	}
	return p.Bytes, nil
}

// UnmarshalPrediction decodes a Prediction record, failing closed with
// ErrCorruptState.
func UnmarshalPrediction(b []byte) (*Prediction, error) {
	if len(b) != PredictionSize {
		return nil, fmt.Errorf("%w: prediction record is %d bytes, want %d", ErrCorruptState, len(b), PredictionSize)
	}
	p := &wrappers.Packer{Bytes: b}
	if err := unpackHeader(p, predictionRecordTag); err != nil {
		return nil, err
	}
	pr := &Prediction{}
	copy(pr.Address[:], p.UnpackFixedBytes(codec.AddressLen))
	copy(pr.Room[:], p.UnpackFixedBytes(codec.AddressLen))
	copy(pr.Predictor[:], p.UnpackFixedBytes(codec.AddressLen))
	pr.Stake = p.UnpackLong()
	pr.TargetPrice = int64(p.UnpackLong())
	pr.Expiry = int64(p.UnpackLong())
	pr.CreatedAt = int64(p.UnpackLong())
	pr.Status = Status(p.UnpackByte())
	pr.SettledAt = int64(p.UnpackLong())
	pr.SettledPrice = int64(p.UnpackLong())
	if p.Errored() || p.Offset != len(b) {
		return nil, fmt.Errorf("%w: truncated prediction record", ErrCorruptState)
	}
	if err := pr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return pr, nil
}

// GetPrediction retrieves the prediction stored at addr.
func GetPrediction(ctx context.Context, im state.Immutable, addr codec.Address) (*Prediction, error) {
	valBytes, err := im.GetValue(ctx, PredictionKey(addr))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("prediction %s not found: %w", addr, err)
		}
		return nil, err
	}
	pr, err := UnmarshalPrediction(valBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode prediction %s: %w", addr, err)
	}
	return pr, nil
}

// HasPrediction reports whether a record exists at addr, settled or not.
func HasPrediction(ctx context.Context, im state.Immutable, addr codec.Address) (bool, error) {
	return exists(ctx, im, PredictionKey(addr))
}

// SetPrediction stores pr under its derived address.
func SetPrediction(ctx context.Context, mu state.Mutable, pr *Prediction) error {
	b, err := MarshalPrediction(pr)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, PredictionKey(pr.Address), b)
}
