package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func testRoom() *Room {
	return &Room{
		ID:          "r1",
		Address:     codec.CreateAddress(0x7f, ids.GenerateTestID()),
		Bump:        254,
		Authority:   codec.CreateAddress(0, ids.GenerateTestID()),
		OracleFeed:  codec.CreateAddress(0, ids.GenerateTestID()),
		StakingMint: ids.GenerateTestID(),
		Vault:       codec.CreateAddress(0x7f, ids.GenerateTestID()),
		VaultBump:   255,
		CreatedAt:   1700000000000,
	}
}

func TestSetGetRoom(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	room := testRoom()
	require.NoError(SetRoom(ctx, st, room))

	ok, err := HasRoom(ctx, st, room.Address)
	require.NoError(err)
	require.True(ok)

	got, err := GetRoom(ctx, st, room.Address)
	require.NoError(err)
	require.Equal(room, got)
}

func TestGetRoom_NotFound(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	addr := codec.CreateAddress(0x7f, ids.GenerateTestID())
	_, err := GetRoom(ctx, st, addr)
	require.ErrorIs(err, database.ErrNotFound)

	ok, err := HasRoom(ctx, st, addr)
	require.NoError(err)
	require.False(ok)
}

func TestRoomRoundTrip_IDLengths(t *testing.T) {
	for _, id := range []string{"a", "r1", "room-with-a-32-byte-identifier!!"} {
		t.Run(id, func(t *testing.T) {
			require := require.New(t)
			room := testRoom()
			room.ID = id

			b, err := MarshalRoom(room)
			require.NoError(err)
			require.Len(b, RoomSize)

			got, err := UnmarshalRoom(b)
			require.NoError(err)
			require.Equal(room, got)
		})
	}
}

func TestMarshalRoom_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Room)
	}{
		{"EmptyID", func(r *Room) { r.ID = "" }},
		{"IDTooLong", func(r *Room) { r.ID = "room-with-a-33-byte-identifier!!!" }},
		{"EmptyOracle", func(r *Room) { r.OracleFeed = codec.EmptyAddress }},
		{"EmptyMint", func(r *Room) { r.StakingMint = ids.Empty }},
		{"EmptyVault", func(r *Room) { r.Vault = codec.EmptyAddress }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			room := testRoom()
			tc.mutate(room)
			_, err := MarshalRoom(room)
			require.ErrorIs(t, err, ErrInvalidRoom)
		})
	}
}

func TestUnmarshalRoom_FailsClosed(t *testing.T) {
	valid, err := MarshalRoom(testRoom())
	require.NoError(t, err)

	tests := []struct {
		name  string
		bytes func() []byte
	}{
		{"Empty", func() []byte { return nil }},
		{"Short", func() []byte { return valid[:RoomSize-1] }},
		{"Trailing", func() []byte { return append(append([]byte{}, valid...), 0) }},
		{"WrongTag", func() []byte {
			b := append([]byte{}, valid...)
			b[0] = predictionRecordTag
			return b
		}},
		{"WrongVersion", func() []byte {
			b := append([]byte{}, valid...)
			b[1] = recordVersion + 1
			return b
		}},
		{"IDLengthOverflow", func() []byte {
			b := append([]byte{}, valid...)
			b[2] = 33
			return b
		}},
		{"DirtyPadding", func() []byte {
			b := append([]byte{}, valid...)
			b[3+31] = 'x'
			return b
		}},
		{"ZeroedOracle", func() []byte {
			b := append([]byte{}, valid...)
			off := 3 + 32 + codec.AddressLen + 1 + codec.AddressLen
			copy(b[off:off+codec.AddressLen], make([]byte, codec.AddressLen))
			return b
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalRoom(tc.bytes())
			require.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestGetRoom_CorruptValue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	addr := codec.CreateAddress(0x7f, ids.GenerateTestID())
	require.NoError(st.Insert(ctx, RoomKey(addr), []byte{roomRecordTag, recordVersion}))

	_, err := GetRoom(ctx, st, addr)
	require.ErrorIs(err, ErrCorruptState)
}
