package bridge

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// blockReader is the part of ethclient.Client the history scan needs.
type blockReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// historyScanner walks the newest blocks looking for an address.
// Nodes expose no per-account history, so this is bounded by depth.
type historyScanner struct {
	reader        blockReader
	depth         int
	maxConcurrent int
	limiter       *rate.Limiter
	scanTimeout   time.Duration
	decimals      uint8
	layout        string
	loc           *time.Location
}

func newHistoryScanner(reader blockReader, netDef entity.NetworkDefinition, opts Options) *historyScanner {
	opts = opts.withDefaults()
	return &historyScanner{
		reader:        reader,
		depth:         opts.HistoryScanBlocks,
		maxConcurrent: opts.MaxConcurrent,
		limiter:       rate.NewLimiter(rate.Limit(opts.RateLimit), opts.BurstLimit),
		scanTimeout:   opts.ScanTimeout,
		decimals:      netDef.Decimals,
		layout:        opts.TimestampLayout,
		loc:           opts.Location,
	}
}

// Scan returns matching transactions ordered by block then index, oldest first.
func (s *historyScanner) Scan(ctx context.Context, target common.Address) ([]entity.Transaction, error) {
	if s.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.scanTimeout)
		defer cancel()
	}

	head, err := s.reader.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read head block number: %w", err)
	}
	chainID, err := s.reader.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	signer := types.LatestSignerForChainID(chainID)

	count := uint64(s.depth)
	if count > head+1 {
		count = head + 1
	}
	first := head + 1 - count

	perBlock := make([][]entity.Transaction, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i := uint64(0); i < count; i++ {
		idx := i
		number := first + i
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			block, err := s.reader.BlockByNumber(gctx, new(big.Int).SetUint64(number))
			if err != nil {
				return fmt.Errorf("failed to fetch block %d: %w", number, err)
			}
			perBlock[idx] = s.match(block, target, signer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []entity.Transaction
	for _, txs := range perBlock {
		out = append(out, txs...)
	}
	return out, nil
}

func (s *historyScanner) match(block *types.Block, target common.Address, signer types.Signer) []entity.Transaction {
	if block == nil {
		return nil
	}
	var matched []entity.Transaction
	timestamp := utils.FormatUnixSeconds(int64(block.Time()), s.layout, s.loc)

	for _, tx := range block.Transactions() {
		from, err := types.Sender(signer, tx)
		fromMatches := err == nil && from == target
		toMatches := tx.To() != nil && *tx.To() == target
		if !fromMatches && !toMatches {
			continue
		}

		record := entity.Transaction{
			Hash:      tx.Hash().Hex(),
			Value:     utils.FormatUnits(tx.Value(), s.decimals),
			Timestamp: timestamp,
		}
		if err == nil {
			record.From = from.Hex()
		}
		if tx.To() != nil {
			record.To = tx.To().Hex()
		}
		matched = append(matched, record)
	}
	return matched
}
