// Package program implements the prediction room instructions. Every
// instruction stages its writes over the caller's state and commits them
// only once all of its checks have passed.
package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
	"go.uber.org/zap"

	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/pda"
	"github.com/chokosabe/predictchatvm/settlement"
	"github.com/chokosabe/predictchatvm/storage"
)

// VaultFunding reports and consumes the funds a depositor has placed in a
// room's vault. The processor never moves funds into a vault itself.
type VaultFunding interface {
	Available(ctx context.Context, im state.Immutable, vault, depositor codec.Address) (uint64, error)
	Commit(ctx context.Context, mu state.Mutable, vault, depositor codec.Address, amount uint64) error
}

type InitializeRoomArgs struct {
	RoomID      string
	OracleFeed  codec.Address
	StakingMint ids.ID
}

type StakeArgs struct {
	RoomID      string
	Stake       uint64
	TargetPrice int64
	Expiry      int64
}

type SettleArgs struct {
	RoomID    string
	Predictor codec.Address
}

type Processor struct {
	cfg     Config
	log     logging.Logger
	funding VaultFunding
}

func New(cfg Config, log logging.Logger, funding VaultFunding) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NoLog{}
	}
	if funding == nil {
		return nil, fmt.Errorf("%w: missing vault funding", ErrInvalidConfiguration)
	}
	return &Processor{cfg: cfg, log: log, funding: funding}, nil
}

func (p *Processor) Config() Config {
	return p.cfg
}

// InitializeRoom creates the room derived from args.RoomID, owned by
// authority. A room can be created only once.
func (p *Processor) InitializeRoom(
	ctx context.Context,
	mu state.Mutable,
	now int64,
	authority codec.Address,
	args InitializeRoomArgs,
) (*storage.Room, error) {
	tx := newTxn(mu)
	room, err := p.initializeRoom(ctx, tx, now, authority, args)
	if err != nil {
		p.log.Debug("initialize room rejected",
			zap.String("room", args.RoomID),
			zap.Stringer("authority", authority),
			zap.Error(err),
		)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: room %s: %w", ErrAllocationFailed, room.Address, err)
	}
	p.log.Info("room initialized",
		zap.String("room", room.ID),
		zap.Stringer("address", room.Address),
		zap.Stringer("vault", room.Vault),
		zap.Stringer("oracle", room.OracleFeed),
	)
	return room, nil
}

func (p *Processor) initializeRoom(
	ctx context.Context,
	tx *txn,
	now int64,
	authority codec.Address,
	args InitializeRoomArgs,
) (*storage.Room, error) {
	if authority == codec.EmptyAddress {
		return nil, fmt.Errorf("%w: empty authority", ErrInvalidConfiguration)
	}
	if args.OracleFeed == codec.EmptyAddress {
		return nil, fmt.Errorf("%w: empty oracle feed", ErrInvalidConfiguration)
	}
	if args.StakingMint == ids.Empty {
		return nil, fmt.Errorf("%w: empty staking mint", ErrInvalidConfiguration)
	}
	roomAddr, err := pda.Room(args.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	vaultAddr, err := pda.Vault(args.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	exists, err := storage.HasRoom(ctx, tx, roomAddr.Codec())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q at %s", ErrAlreadyInitialized, args.RoomID, roomAddr.Codec())
	}

	room := &storage.Room{
		ID:          args.RoomID,
		Address:     roomAddr.Codec(),
		Bump:        roomAddr.Bump,
		Authority:   authority,
		OracleFeed:  args.OracleFeed,
		StakingMint: args.StakingMint,
		Vault:       vaultAddr.Codec(),
		VaultBump:   vaultAddr.Bump,
		CreatedAt:   now,
	}
	if err := storage.SetRoom(ctx, tx, room); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	return room, nil
}

// StakeAndCommit records predictor's stake on args.TargetPrice at
// args.Expiry, consuming the stake from the funds predictor placed in the
// room's vault.
func (p *Processor) StakeAndCommit(
	ctx context.Context,
	mu state.Mutable,
	now int64,
	predictor codec.Address,
	args StakeArgs,
) (*storage.Prediction, error) {
	tx := newTxn(mu)
	pred, err := p.stakeAndCommit(ctx, tx, now, predictor, args)
	if err != nil {
		p.log.Debug("stake rejected",
			zap.String("room", args.RoomID),
			zap.Stringer("predictor", predictor),
			zap.Uint64("stake", args.Stake),
			zap.Error(err),
		)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: prediction %s: %w", ErrAllocationFailed, pred.Address, err)
	}
	p.log.Info("prediction committed",
		zap.String("room", args.RoomID),
		zap.Stringer("prediction", pred.Address),
		zap.Stringer("predictor", predictor),
		zap.Uint64("stake", pred.Stake),
		zap.Int64("target", pred.TargetPrice),
		zap.Int64("expiry", pred.Expiry),
	)
	return pred, nil
}

func (p *Processor) stakeAndCommit(
	ctx context.Context,
	tx *txn,
	now int64,
	predictor codec.Address,
	args StakeArgs,
) (*storage.Prediction, error) {
	if predictor == codec.EmptyAddress {
		return nil, fmt.Errorf("%w: empty predictor", ErrInvalidConfiguration)
	}
	if args.Stake == 0 {
		return nil, fmt.Errorf("%w: stake must be greater than zero", ErrInvalidStakeAmount)
	}
	if args.Expiry <= now || args.Expiry-now < p.cfg.MinExpiryDelay {
		return nil, fmt.Errorf("%w: expiry %d, now %d, min delay %d", ErrExpiryNotInFuture, args.Expiry, now, p.cfg.MinExpiryDelay)
	}

	room, err := loadRoom(ctx, tx, args.RoomID)
	if err != nil {
		return nil, err
	}

	predAddr, err := pda.Prediction(room.Address, predictor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	// Predictions are never overwritten, settled or not.
	exists, err := storage.HasPrediction(ctx, tx, predAddr.Codec())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already has a prediction in %q", ErrDuplicatePrediction, predictor, room.ID)
	}

	available, err := p.funding.Available(ctx, tx, room.Vault, predictor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if available < args.Stake {
		return nil, fmt.Errorf("%w: vault %s holds %d from %s, stake %d", ErrVaultNotFunded, room.Vault, available, predictor, args.Stake)
	}
	if err := p.funding.Commit(ctx, tx, room.Vault, predictor, args.Stake); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultNotFunded, err)
	}

	pred := &storage.Prediction{
		Address:     predAddr.Codec(),
		Room:        room.Address,
		Predictor:   predictor,
		Stake:       args.Stake,
		TargetPrice: args.TargetPrice,
		Expiry:      args.Expiry,
		CreatedAt:   now,
		Status:      storage.StatusOpen,
	}
	if err := storage.SetPrediction(ctx, tx, pred); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	return pred, nil
}

// SettlePrediction resolves args.Predictor's prediction against feed once it
// has expired. settler must be the predictor or, when the config allows it,
// the room authority. A settled prediction is never written again.
func (p *Processor) SettlePrediction(
	ctx context.Context,
	mu state.Mutable,
	now int64,
	settler codec.Address,
	args SettleArgs,
	feed oracle.Account,
) (*storage.Prediction, error) {
	tx := newTxn(mu)
	settled, err := p.settlePrediction(ctx, tx, now, settler, args, feed)
	if err != nil {
		p.log.Debug("settlement rejected",
			zap.String("room", args.RoomID),
			zap.Stringer("predictor", args.Predictor),
			zap.Stringer("oracle", feed.Address),
			zap.Error(err),
		)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: prediction %s: %w", ErrStorageFailure, settled.Address, err)
	}
	p.log.Info("prediction settled",
		zap.String("room", args.RoomID),
		zap.Stringer("prediction", settled.Address),
		zap.Int64("price", settled.SettledPrice),
		zap.Int64("target", settled.TargetPrice),
		zap.Stringer("status", settled.Status),
	)
	return settled, nil
}

func (p *Processor) settlePrediction(
	ctx context.Context,
	tx *txn,
	now int64,
	settler codec.Address,
	args SettleArgs,
	feed oracle.Account,
) (*storage.Prediction, error) {
	if args.Predictor == codec.EmptyAddress {
		return nil, fmt.Errorf("%w: empty predictor", ErrInvalidConfiguration)
	}
	room, err := loadRoom(ctx, tx, args.RoomID)
	if err != nil {
		return nil, err
	}
	pred, err := loadPrediction(ctx, tx, room, args.Predictor)
	if err != nil {
		return nil, err
	}
	if settler != pred.Predictor && !(p.cfg.AuthoritySettles && settler == room.Authority) {
		return nil, fmt.Errorf("%w: %s cannot settle prediction %s", ErrUnauthorized, settler, pred.Address)
	}

	settled, err := settlement.Settle(room, pred, feed, now)
	if err != nil {
		return nil, err
	}
	if err := storage.SetPrediction(ctx, tx, settled); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return settled, nil
}

// loadRoom reads the room for roomID and checks it is the record its
// derived address promises.
func loadRoom(ctx context.Context, im state.Immutable, roomID string) (*storage.Room, error) {
	addr, err := pda.Room(roomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	room, err := storage.GetRoom(ctx, im, addr.Codec())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, roomID)
		}
		return nil, err
	}
	if room.ID != roomID || room.Address != addr.Codec() || room.Bump != addr.Bump {
		return nil, fmt.Errorf("%w: room %s does not match id %q", ErrCorruptState, addr.Codec(), roomID)
	}
	vaultSeeds, err := pda.VaultSeeds(roomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if err := pda.Verify(room.Vault, room.VaultBump, vaultSeeds...); err != nil {
		return nil, fmt.Errorf("%w: room %s vault: %w", ErrCorruptState, addr.Codec(), err)
	}
	return room, nil
}

func loadPrediction(ctx context.Context, im state.Immutable, room *storage.Room, predictor codec.Address) (*storage.Prediction, error) {
	addr, err := pda.Prediction(room.Address, predictor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	pred, err := storage.GetPrediction(ctx, im, addr.Codec())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s in %q", ErrPredictionNotFound, predictor, room.ID)
		}
		return nil, err
	}
	if pred.Address != addr.Codec() || pred.Predictor != predictor {
		return nil, fmt.Errorf("%w: prediction %s does not belong to %s", ErrCorruptState, addr.Codec(), predictor)
	}
	return pred, nil
}

// LoadOracle reads the blob published by feed. A feed that never published
// yields an empty blob, which the reader rejects as malformed.
func LoadOracle(ctx context.Context, im state.Immutable, feed codec.Address) (oracle.Account, error) {
	acct, err := oracle.GetFeed(ctx, im, feed)
	if err != nil {
		if errors.Is(err, oracle.ErrFeedNotFound) {
			return oracle.Account{Address: feed}, nil
		}
		return oracle.Account{}, err
	}
	return acct, nil
}

// ReadRoom returns the room stored for roomID.
func ReadRoom(ctx context.Context, im state.Immutable, roomID string) (*storage.Room, error) {
	return loadRoom(ctx, im, roomID)
}

// ReadPrediction returns predictor's prediction in roomID.
func ReadPrediction(ctx context.Context, im state.Immutable, roomID string, predictor codec.Address) (*storage.Prediction, error) {
	room, err := loadRoom(ctx, im, roomID)
	if err != nil {
		return nil, err
	}
	return loadPrediction(ctx, im, room, predictor)
}
