package indexer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"
)

const account = "0xabcd000000000000000000000000000000001234"

type explorerStub struct {
	server *httptest.Server
	calls  atomic.Int32
	query  atomic.Value
}

func newExplorerStub(t *testing.T, status int, body string) *explorerStub {
	t.Helper()
	stub := &explorerStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		stub.query.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(Options{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Timeout:  5 * time.Second,
		Window:   utils.Window{Size: 10, Take: utils.TakeHead},
		Location: time.UTC,
	}, zap.NewNop())
}

func txListBody(n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(
			`{"blockNumber":"%d","timeStamp":"%d","hash":"0x%02d","from":"%s","to":"0x00000000000000000000000000000000000000%02d","value":"%d000000000000000000","contractAddress":"","isError":"0"}`,
			100-i, 1704164645-int64(i), i, account, i, i))
	}
	return `{"status":"1","message":"OK","result":[` + strings.Join(items, ",") + `]}`
}

func TestRecentTransactionsTakesFirstTen(t *testing.T) {
	stub := newExplorerStub(t, http.StatusOK, txListBody(12))
	c := newTestClient(stub.server.URL+"/api", "secret")

	txs, err := c.RecentTransactions(context.Background(), account)
	require.NoError(t, err)
	require.Len(t, txs, 10)
	for i, tx := range txs {
		assert.Equal(t, fmt.Sprintf("0x%02d", i+1), tx.Hash)
		assert.Equal(t, fmt.Sprintf("%d", i+1), tx.Value)
	}
	assert.Equal(t, account, txs[0].From)
	assert.Equal(t, "2024-01-02 03:04:04", txs[0].Timestamp)

	q := stub.query.Load().(url.Values)
	assert.Equal(t, []string{"account"}, q["module"])
	assert.Equal(t, []string{"txlist"}, q["action"])
	assert.Equal(t, []string{account}, q["address"])
	assert.Equal(t, []string{"desc"}, q["sort"])
	assert.Equal(t, []string{"secret"}, q["apikey"])
}

func TestRecentTransactionsStatusZero(t *testing.T) {
	stub := newExplorerStub(t, http.StatusOK, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`)
	c := newTestClient(stub.server.URL, "bad")

	txs, err := c.RecentTransactions(context.Background(), account)
	assert.ErrorIs(t, err, entity.ErrIndexerRejected)
	assert.ErrorContains(t, err, "Invalid API Key")
	assert.Empty(t, txs)
}

func TestRecentTransactionsStatusZeroWithoutResult(t *testing.T) {
	stub := newExplorerStub(t, http.StatusOK, `{"status":"0"}`)
	c := newTestClient(stub.server.URL, "key")

	txs, err := c.RecentTransactions(context.Background(), account)
	assert.ErrorIs(t, err, entity.ErrIndexerRejected)
	assert.Empty(t, txs)
}

func TestRecentTransactionsMissingKeyMakesNoRequest(t *testing.T) {
	stub := newExplorerStub(t, http.StatusOK, txListBody(1))
	c := newTestClient(stub.server.URL, "")

	assert.ErrorIs(t, c.Ready(), entity.ErrConfigMissing)
	_, err := c.RecentTransactions(context.Background(), account)
	assert.ErrorIs(t, err, entity.ErrConfigMissing)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestRecentTransactionsHTTPFailure(t *testing.T) {
	stub := newExplorerStub(t, http.StatusBadGateway, `upstream down`)
	c := newTestClient(stub.server.URL, "key")

	_, err := c.RecentTransactions(context.Background(), account)
	assert.ErrorIs(t, err, entity.ErrFetchFailed)
}

func TestRecentTransactionsMalformedJSON(t *testing.T) {
	stub := newExplorerStub(t, http.StatusOK, `{"status":"1","result":[`)
	c := newTestClient(stub.server.URL, "key")

	_, err := c.RecentTransactions(context.Background(), account)
	assert.ErrorIs(t, err, entity.ErrFetchFailed)
}

func TestRecentTransactionsUnreachable(t *testing.T) {
	stub := newExplorerStub(t, http.StatusOK, txListBody(1))
	baseURL := stub.server.URL
	stub.server.Close()

	c := newTestClient(baseURL, "key")
	_, err := c.RecentTransactions(context.Background(), account)
	assert.ErrorIs(t, err, entity.ErrFetchFailed)
}

func TestContractCreationUsesContractAddress(t *testing.T) {
	body := `{"status":"1","message":"OK","result":[{"hash":"0xc0","from":"` + account +
		`","to":"","value":"0","timeStamp":"1704164645","contractAddress":"0x00000000000000000000000000000000000000c0"}]}`
	stub := newExplorerStub(t, http.StatusOK, body)
	c := newTestClient(stub.server.URL, "key")

	txs, err := c.RecentTransactions(context.Background(), account)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "0x00000000000000000000000000000000000000c0", txs[0].To)
	assert.Equal(t, "0", txs[0].Value)
}

func TestRedactHidesAPIKey(t *testing.T) {
	c := newTestClient("https://api.etherscan.io/api", "s3cr3t")
	u, err := c.txListURL(account)
	require.NoError(t, err)
	assert.Contains(t, u, "apikey=s3cr3t")
	assert.NotContains(t, c.redact(u), "s3cr3t")
}
