// Package genesis loads a JSON seed of balances, oracle feeds, rooms and
// vault deposits into a program executor.
package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/program"
)

type Allocation struct {
	Address string `json:"address"` // bech32 or label
	Balance uint64 `json:"balance"`
}

type Feed struct {
	Address string `json:"address"`
	Price   int64  `json:"price"`
}

type Room struct {
	ID         string `json:"id"`
	Authority  string `json:"authority"`
	OracleFeed string `json:"oracleFeed"`
	// StakingMint is an ids.ID string or a label for NamedMint.
	StakingMint string `json:"stakingMint"`
}

type Deposit struct {
	RoomID    string `json:"roomId"`
	Depositor string `json:"depositor"`
	Amount    uint64 `json:"amount"`
}

// Genesis is the seed state applied in order: allocations, feeds, rooms,
// then deposits.
type Genesis struct {
	// Timestamp is the clock, in milliseconds, the seed is applied at.
	Timestamp int64 `json:"timestamp"`

	Allocations []Allocation `json:"allocations"`
	Feeds       []Feed       `json:"feeds"`
	Rooms       []Room       `json:"rooms"`
	Deposits    []Deposit    `json:"deposits"`
}

func (g *Genesis) Load(raw []byte) error {
	return json.Unmarshal(raw, g)
}

func LoadFile(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis %s: %w", path, err)
	}
	g := &Genesis{}
	if err := g.Load(raw); err != nil {
		return nil, fmt.Errorf("failed to parse genesis %s: %w", path, err)
	}
	return g, nil
}

func (g *Genesis) GetTimestamp() int64 {
	return g.Timestamp
}

// InitializeState applies the seed through ex. It stops at the first entry
// that fails.
func (g *Genesis) InitializeState(ctx context.Context, ex *program.Executor) error {
	for _, alloc := range g.Allocations {
		addr, err := ResolveAddress(alloc.Address)
		if err != nil {
			return err
		}
		if err := ex.Mint(ctx, addr, alloc.Balance); err != nil {
			return fmt.Errorf("failed to allocate %d to %s: %w", alloc.Balance, alloc.Address, err)
		}
	}
	for _, feed := range g.Feeds {
		addr, err := ResolveAddress(feed.Address)
		if err != nil {
			return err
		}
		if err := ex.PublishPrice(ctx, addr, oracle.EncodePrice(feed.Price)); err != nil {
			return fmt.Errorf("failed to publish feed %s: %w", feed.Address, err)
		}
	}
	for _, room := range g.Rooms {
		authority, err := ResolveAddress(room.Authority)
		if err != nil {
			return err
		}
		feed, err := ResolveAddress(room.OracleFeed)
		if err != nil {
			return err
		}
		if _, err := ex.InitializeRoom(ctx, authority, program.InitializeRoomArgs{
			RoomID:      room.ID,
			OracleFeed:  feed,
			StakingMint: ParseMint(room.StakingMint),
		}); err != nil {
			return fmt.Errorf("failed to initialize room %q: %w", room.ID, err)
		}
	}
	for _, dep := range g.Deposits {
		depositor, err := ResolveAddress(dep.Depositor)
		if err != nil {
			return err
		}
		if err := ex.FundVault(ctx, dep.RoomID, depositor, dep.Amount); err != nil {
			return fmt.Errorf("failed to fund vault of %q for %s: %w", dep.RoomID, dep.Depositor, err)
		}
	}
	return nil
}

// ParseMint accepts an ids.ID string, falling back to NamedMint. An empty
// string maps to ids.Empty.
func ParseMint(s string) ids.ID {
	if s == "" {
		return ids.Empty
	}
	if id, err := ids.FromString(s); err == nil {
		return id
	}
	return NamedMint(s)
}

func GetDefault() *Genesis {
	return &Genesis{
		Timestamp: 0,
		Allocations: []Allocation{
			{Address: "alice", Balance: 1_000_000},
			{Address: "bob", Balance: 1_000_000},
		},
		Feeds: []Feed{
			{Address: "btc-usd", Price: 0},
		},
		Rooms: []Room{
			{ID: "btc-100k", Authority: "operator", OracleFeed: "btc-usd", StakingMint: "pchat"},
		},
	}
}
