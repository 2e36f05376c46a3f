package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/state"
)

// recordVersion is bumped whenever a record layout changes.
const recordVersion byte = 1

// ErrCorruptState is returned when a stored record does not decode exactly.
var ErrCorruptState = errors.New("corrupt state")

func unpackHeader(p *wrappers.Packer, tag byte) error {
	gotTag := p.UnpackByte()
	gotVersion := p.UnpackByte()
	switch {
	case p.Errored():
		return fmt.Errorf("%w: missing record header", ErrCorruptState)
	case gotTag != tag:
		return fmt.Errorf("%w: record tag %#x, want %#x", ErrCorruptState, gotTag, tag)
	case gotVersion != recordVersion:
		return fmt.Errorf("%w: record version %d, want %d", ErrCorruptState, gotVersion, recordVersion)
	}
	return nil
}

func exists(ctx context.Context, im state.Immutable, key []byte) (bool, error) {
	_, err := im.GetValue(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
