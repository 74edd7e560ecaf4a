package bridge

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_dashboard/internal/domain/entity"
)

type fakeChain struct {
	chainID *big.Int
	head    uint64
	blocks  map[uint64]*types.Block
	failAt  uint64
}

func (f *fakeChain) BlockNumber(ctx context.Context) (uint64, error) { return f.head, nil }
func (f *fakeChain) ChainID(ctx context.Context) (*big.Int, error)   { return f.chainID, nil }

func (f *fakeChain) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	n := number.Uint64()
	if f.failAt != 0 && n == f.failAt {
		return nil, errors.New("node unavailable")
	}
	if b, ok := f.blocks[n]; ok {
		return b, nil
	}
	return types.NewBlockWithHeader(&types.Header{Number: new(big.Int).SetUint64(n)}), nil
}

func signedTransfer(t *testing.T, key *ecdsa.PrivateKey, chainID *big.Int, nonce uint64, to common.Address, wei int64) *types.Transaction {
	t.Helper()
	return types.MustSignNewTx(key, types.LatestSignerForChainID(chainID), &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        &to,
		Value:     big.NewInt(wei),
		Gas:       21000,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
	})
}

func blockWith(number, timestamp uint64, txs ...*types.Transaction) *types.Block {
	header := &types.Header{Number: new(big.Int).SetUint64(number), Time: timestamp}
	return types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs})
}

func TestHistoryScanMatchesSenderAndRecipient(t *testing.T) {
	chainID := big.NewInt(1)
	ownerKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(ownerKey.PublicKey)
	other := crypto.PubkeyToAddress(otherKey.PublicKey)
	stranger := common.HexToAddress("0x000000000000000000000000000000000000dEaD")

	outOfRange := signedTransfer(t, ownerKey, chainID, 0, other, 1)
	sent := signedTransfer(t, ownerKey, chainID, 1, other, 500000000000000000)
	unrelated := signedTransfer(t, otherKey, chainID, 0, stranger, 7)
	received := signedTransfer(t, otherKey, chainID, 1, owner, 1500000000000000000)

	chain := &fakeChain{
		chainID: chainID,
		head:    4,
		blocks: map[uint64]*types.Block{
			1: blockWith(1, 1704164600, outOfRange),
			2: blockWith(2, 1704164612, sent),
			3: blockWith(3, 1704164624, unrelated),
			4: blockWith(4, 1704164636, received),
		},
	}
	scanner := newHistoryScanner(chain, entity.Ethereum, Options{HistoryScanBlocks: 3, Location: time.UTC})

	txs, err := scanner.Scan(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, sent.Hash().Hex(), txs[0].Hash)
	assert.Equal(t, owner.Hex(), txs[0].From)
	assert.Equal(t, other.Hex(), txs[0].To)
	assert.Equal(t, "0.5", txs[0].Value)
	assert.Equal(t, "2024-01-02 03:03:32", txs[0].Timestamp)

	assert.Equal(t, received.Hash().Hex(), txs[1].Hash)
	assert.Equal(t, other.Hex(), txs[1].From)
	assert.Equal(t, owner.Hex(), txs[1].To)
	assert.Equal(t, "1.5", txs[1].Value)
}

func TestHistoryScanDepthLargerThanChain(t *testing.T) {
	chain := &fakeChain{chainID: big.NewInt(1), head: 1, blocks: map[uint64]*types.Block{}}
	scanner := newHistoryScanner(chain, entity.Ethereum, Options{HistoryScanBlocks: 50})

	txs, err := scanner.Scan(context.Background(), common.HexToAddress(testAccount))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestHistoryScanPropagatesBlockErrors(t *testing.T) {
	chain := &fakeChain{chainID: big.NewInt(1), head: 10, blocks: map[uint64]*types.Block{}, failAt: 9}
	scanner := newHistoryScanner(chain, entity.Ethereum, Options{HistoryScanBlocks: 4})

	_, err := scanner.Scan(context.Background(), common.HexToAddress(testAccount))
	assert.ErrorContains(t, err, "block 9")
}
