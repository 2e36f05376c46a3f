// Package scenario replays scripted room operations against an executor and
// checks their expected outcomes.
package scenario

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/hypersdk/state"
	"go.uber.org/zap"

	"github.com/chokosabe/predictchatvm/escrow"
	"github.com/chokosabe/predictchatvm/genesis"
	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/program"
	"github.com/chokosabe/predictchatvm/storage"
)

const (
	OpMint    = "mint"
	OpPublish = "publish"
	OpInit    = "init"
	OpFund    = "fund"
	OpStake   = "stake"
	OpSettle  = "settle"
)

var (
	ErrUnknownOp         = errors.New("unknown op")
	ErrUnknownError      = errors.New("unknown error name")
	ErrClockRegression   = errors.New("clock moved backwards")
	ErrExpectationFailed = errors.New("expectation failed")
	ErrInvalidOracleBlob = errors.New("invalid oracle blob")
)

// errorNames maps the names scripts use in expectError to program errors.
var errorNames = map[string]error{
	"AlreadyInitialized":   program.ErrAlreadyInitialized,
	"InvalidConfiguration": program.ErrInvalidConfiguration,
	"AllocationFailed":     program.ErrAllocationFailed,
	"RoomNotFound":         program.ErrRoomNotFound,
	"PredictionNotFound":   program.ErrPredictionNotFound,
	"InvalidStakeAmount":   program.ErrInvalidStakeAmount,
	"ExpiryNotInFuture":    program.ErrExpiryNotInFuture,
	"DuplicatePrediction":  program.ErrDuplicatePrediction,
	"VaultNotFunded":       program.ErrVaultNotFunded,
	"MalformedOracleData":  program.ErrMalformedOracleData,
	"OracleMismatch":       program.ErrOracleMismatch,
	"NotYetExpired":        program.ErrNotYetExpired,
	"AlreadySettled":       program.ErrAlreadySettled,
	"CorruptState":         program.ErrCorruptState,
	"Unauthorized":         program.ErrUnauthorized,
	"InsufficientBalance":  storage.ErrInsufficientBalance,
}

// ErrorNames lists the names accepted by expectError.
func ErrorNames() []string {
	names := make([]string, 0, len(errorNames))
	for name := range errorNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Op is one scripted operation. Fields not used by an op are ignored.
type Op struct {
	Op string `json:"op"`
	// At moves the clock (milliseconds) before the op runs. Zero leaves it.
	At int64 `json:"at,omitempty"`

	Actor     string `json:"actor,omitempty"`
	Room      string `json:"room,omitempty"`
	Oracle    string `json:"oracle,omitempty"`
	Mint      string `json:"mint,omitempty"`
	Predictor string `json:"predictor,omitempty"`
	Amount    uint64 `json:"amount,omitempty"`
	Target    int64  `json:"target,omitempty"`
	Expiry    int64  `json:"expiry,omitempty"`
	Price     int64  `json:"price,omitempty"`
	// Data is a hex blob published instead of Price.
	Data string `json:"data,omitempty"`

	ExpectError string `json:"expectError,omitempty"`
	ExpectWon   *bool  `json:"expectWon,omitempty"`
}

type Script struct {
	Genesis *genesis.Genesis `json:"genesis,omitempty"`
	Ops     []Op             `json:"ops"`
}

func LoadFile(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	s := &Script{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	return s, nil
}

// Step records the outcome of one op.
type Step struct {
	Index      int
	Op         Op
	Now        int64
	Err        error
	Room       *storage.Room
	Prediction *storage.Prediction
}

type Runner struct {
	ex    *program.Executor
	clock *mockable.Clock
	log   logging.Logger
}

// NewRunner builds a runner over store with its clock at zero.
func NewRunner(cfg program.Config, log logging.Logger, store state.Mutable) (*Runner, error) {
	if log == nil {
		log = logging.NoLog{}
	}
	proc, err := program.New(cfg, log, escrow.Ledger{})
	if err != nil {
		return nil, err
	}
	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(0))
	return &Runner{
		ex:    program.NewExecutor(proc, store, clock),
		clock: clock,
		log:   log,
	}, nil
}

func (r *Runner) Executor() *program.Executor {
	return r.ex
}

// Run applies s.Genesis, then each op in order. It stops at the first op
// whose outcome does not match its expectation.
func (r *Runner) Run(ctx context.Context, s *Script) ([]Step, error) {
	if s.Genesis != nil {
		if err := r.advance(s.Genesis.GetTimestamp()); err != nil {
			return nil, err
		}
		if err := s.Genesis.InitializeState(ctx, r.ex); err != nil {
			return nil, fmt.Errorf("genesis: %w", err)
		}
	}
	steps := make([]Step, 0, len(s.Ops))
	for i, op := range s.Ops {
		if err := r.advance(op.At); err != nil {
			return steps, fmt.Errorf("op %d: %w", i, err)
		}
		step := Step{Index: i, Op: op, Now: r.ex.Now()}
		step.Room, step.Prediction, step.Err = r.apply(ctx, op)
		steps = append(steps, step)

		r.log.Debug("scenario op",
			zap.Int("index", i),
			zap.String("op", op.Op),
			zap.Int64("now", step.Now),
			zap.Error(step.Err),
		)
		if err := check(op, step); err != nil {
			return steps, fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
	}
	return steps, nil
}

func (r *Runner) advance(at int64) error {
	if at == 0 {
		return nil
	}
	if now := r.ex.Now(); at < now {
		return fmt.Errorf("%w: %d < %d", ErrClockRegression, at, now)
	}
	r.clock.Set(time.UnixMilli(at))
	return nil
}

func (r *Runner) apply(ctx context.Context, op Op) (*storage.Room, *storage.Prediction, error) {
	switch op.Op {
	case OpMint:
		actor, err := genesis.ResolveAddress(op.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, r.ex.Mint(ctx, actor, op.Amount)
	case OpPublish:
		feed, err := genesis.ResolveAddress(op.Oracle)
		if err != nil {
			return nil, nil, err
		}
		blob := oracle.EncodePrice(op.Price)
		if op.Data != "" {
			if blob, err = hex.DecodeString(op.Data); err != nil {
				return nil, nil, fmt.Errorf("%w: %w", ErrInvalidOracleBlob, err)
			}
		}
		return nil, nil, r.ex.PublishPrice(ctx, feed, blob)
	case OpInit:
		actor, err := genesis.ResolveAddress(op.Actor)
		if err != nil {
			return nil, nil, err
		}
		feed, err := genesis.ResolveAddress(op.Oracle)
		if err != nil {
			return nil, nil, err
		}
		room, err := r.ex.InitializeRoom(ctx, actor, program.InitializeRoomArgs{
			RoomID:      op.Room,
			OracleFeed:  feed,
			StakingMint: genesis.ParseMint(op.Mint),
		})
		return room, nil, err
	case OpFund:
		actor, err := genesis.ResolveAddress(op.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, r.ex.FundVault(ctx, op.Room, actor, op.Amount)
	case OpStake:
		actor, err := genesis.ResolveAddress(op.Actor)
		if err != nil {
			return nil, nil, err
		}
		pred, err := r.ex.StakeAndCommit(ctx, actor, program.StakeArgs{
			RoomID:      op.Room,
			Stake:       op.Amount,
			TargetPrice: op.Target,
			Expiry:      op.Expiry,
		})
		return nil, pred, err
	case OpSettle:
		actor, err := genesis.ResolveAddress(op.Actor)
		if err != nil {
			return nil, nil, err
		}
		predictor := actor
		if op.Predictor != "" {
			if predictor, err = genesis.ResolveAddress(op.Predictor); err != nil {
				return nil, nil, err
			}
		}
		feed, err := genesis.ResolveAddress(op.Oracle)
		if err != nil {
			return nil, nil, err
		}
		pred, err := r.ex.SettlePrediction(ctx, actor, program.SettleArgs{
			RoomID:    op.Room,
			Predictor: predictor,
		}, feed)
		return nil, pred, err
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
}

func check(op Op, step Step) error {
	if op.ExpectError == "" {
		if step.Err != nil {
			return fmt.Errorf("%w: unexpected error: %w", ErrExpectationFailed, step.Err)
		}
	} else {
		want, ok := errorNames[op.ExpectError]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownError, op.ExpectError)
		}
		if !errors.Is(step.Err, want) {
			return fmt.Errorf("%w: want %s, got %v", ErrExpectationFailed, op.ExpectError, step.Err)
		}
	}
	if op.ExpectWon != nil {
		if step.Prediction == nil || !step.Prediction.Settled() {
			return fmt.Errorf("%w: expected a settled prediction", ErrExpectationFailed)
		}
		if step.Prediction.Won() != *op.ExpectWon {
			return fmt.Errorf("%w: want won=%t, got %s", ErrExpectationFailed, *op.ExpectWon, step.Prediction.Status)
		}
	}
	return nil
}
