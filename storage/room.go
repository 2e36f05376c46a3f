package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/chokosabe/predictchatvm/consts"
)

const (
	roomRecordTag byte = 'R'

	// RoomSize is the fixed encoded length of a Room record:
	// tag | version | id len | id (padded) | address | bump | authority |
	// oracle feed | staking mint | vault | vault bump | created at
	RoomSize = 1 + 1 + 1 + consts.MaxRoomIDLen + codec.AddressLen + 1 +
		codec.AddressLen + codec.AddressLen + ids.IDLen + codec.AddressLen + 1 +
		wrappers.LongLen
)

var ErrInvalidRoom = errors.New("invalid room")

// Room is one prediction channel bound to an oracle feed and a staking
// mint. It is written once by InitializeRoom and never mutated.
type Room struct {
	ID          string        `json:"id"`
	Address     codec.Address `json:"address"`
	Bump        uint8         `json:"bump"`
	Authority   codec.Address `json:"authority"`
	OracleFeed  codec.Address `json:"oracleFeed"`
	StakingMint ids.ID        `json:"stakingMint"`
	Vault       codec.Address `json:"vault"`
	VaultBump   uint8         `json:"vaultBump"`
	CreatedAt   int64         `json:"createdAt"`
}

// Validate checks the configuration a stored room must carry.
func (r *Room) Validate() error {
	switch {
	case len(r.ID) == 0 || len(r.ID) > consts.MaxRoomIDLen:
		return fmt.Errorf("%w: id length %d", ErrInvalidRoom, len(r.ID))
	case r.OracleFeed == codec.EmptyAddress:
		return fmt.Errorf("%w: empty oracle feed", ErrInvalidRoom)
	case r.StakingMint == ids.Empty:
		return fmt.Errorf("%w: empty staking mint", ErrInvalidRoom)
	case r.Address == codec.EmptyAddress || r.Vault == codec.EmptyAddress:
		return fmt.Errorf("%w: missing derived address", ErrInvalidRoom)
	}
	return nil
}

// RoomKey returns the state key of the room stored at addr.
func RoomKey(addr codec.Address) []byte {
	return AddressKey(RoomPrefix, addr, RoomChunks)
}

// MarshalRoom encodes r into its fixed layout.
func MarshalRoom(r *Room) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	p := &wrappers.Packer{Bytes: make([]byte, 0, RoomSize), MaxSize: RoomSize}
	p.PackByte(roomRecordTag)
	p.PackByte(recordVersion)
	p.PackByte(uint8(len(r.ID)))
	var id [consts.MaxRoomIDLen]byte
	copy(id[:], r.ID)
	p.PackFixedBytes(id[:])
	p.PackFixedBytes(r.Address[:])
	p.PackByte(r.Bump)
	p.PackFixedBytes(r.Authority[:])
	p.PackFixedBytes(r.OracleFeed[:])
	p.PackFixedBytes(r.StakingMint[:])
	p.PackFixedBytes(r.Vault[:])
	p.PackByte(r.VaultBump)
	p.PackLong(uint64(r.CreatedAt))
	if p.Errored() {
		return nil, fmt.Errorf("failed to pack room %s: %w", r.ID, p.Err)
	}
	return p.Bytes, nil
}

// UnmarshalRoom decodes a Room record. Anything other than an exact,
// well-formed record yields ErrCorruptState.
func UnmarshalRoom(b []byte) (*Room, error) {
	if len(b) != RoomSize {
		return nil, fmt.Errorf("%w: room record is %d bytes, want %d", ErrCorruptState, len(b), RoomSize)
	}
	p := &wrappers.Packer{Bytes: b}
	if err := unpackHeader(p, roomRecordTag); err != nil {
		return nil, err
	}
	r := &Room{}
	idLen := int(p.UnpackByte())
	id := p.UnpackFixedBytes(consts.MaxRoomIDLen)
	if p.Errored() || idLen > consts.MaxRoomIDLen {
		return nil, fmt.Errorf("%w: bad room id length %d", ErrCorruptState, idLen)
	}
	for _, pad := range id[idLen:] {
		if pad != 0 {
			return nil, fmt.Errorf("%w: non-zero room id padding", ErrCorruptState)
		}
	}
	r.ID = string(id[:idLen])
	copy(r.Address[:], p.UnpackFixedBytes(codec.AddressLen))
	r.Bump = p.UnpackByte()
	copy(r.Authority[:], p.UnpackFixedBytes(codec.AddressLen))
	copy(r.OracleFeed[:], p.UnpackFixedBytes(codec.AddressLen))
	copy(r.StakingMint[:], p.UnpackFixedBytes(ids.IDLen))
	copy(r.Vault[:], p.UnpackFixedBytes(codec.AddressLen))
	r.VaultBump = p.UnpackByte()
	r.CreatedAt = int64(p.UnpackLong())
	if p.Errored() || p.Offset != len(b) {
		return nil, fmt.Errorf("%w: truncated room record", ErrCorruptState)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return r, nil
}

// GetRoom retrieves the room stored at addr.
func GetRoom(ctx context.Context, im state.Immutable, addr codec.Address) (*Room, error) {
	valBytes, err := im.GetValue(ctx, RoomKey(addr))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("room %s not found: %w", addr, err)
		}
		return nil, err
	}
	room, err := UnmarshalRoom(valBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode room %s: %w", addr, err)
	}
	return room, nil
}

// HasRoom reports whether a record exists at addr, without decoding it.
func HasRoom(ctx context.Context, im state.Immutable, addr codec.Address) (bool, error) {
	return exists(ctx, im, RoomKey(addr))
}

// SetRoom stores r under its derived address.
func SetRoom(ctx context.Context, mu state.Mutable, r *Room) error {
	b, err := MarshalRoom(r)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, RoomKey(r.Address), b)
}
