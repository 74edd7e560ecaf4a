package indexer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StrategyName identifies this source in logs and metrics.
const StrategyName = "indexer"

// Options configure the explorer client.
type Options struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	Window          utils.Window
	Decimals        uint8
	TimestampLayout string
	Location        *time.Location
}

// Client implements port.TransactionSource against an Etherscan-compatible API.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	window  utils.Window
	dec     uint8
	layout  string
	loc     *time.Location
	logger  *zap.Logger
}

// NewClient creates a new explorer client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Decimals == 0 {
		opts.Decimals = 18
	}
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  strings.TrimSpace(opts.APIKey),
		timeout: opts.Timeout,
		window:  opts.Window,
		dec:     opts.Decimals,
		layout:  opts.TimestampLayout,
		loc:     opts.Location,
		logger:  logger.Named("ExplorerClient"),
	}
}

// Name implements port.TransactionSource.
func (c *Client) Name() string {
	return StrategyName
}

// Ready reports ConfigMissing when no API key is configured.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return entity.NewWalletError(entity.KindConfigMissing, "explorer api key", fmt.Errorf("explorer API key is missing"))
	}
	return nil
}

// RecentTransactions fetches the account's transactions newest first and
// applies the configured window.
func (c *Client) RecentTransactions(ctx context.Context, address string) ([]entity.Transaction, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	requestURL, err := c.txListURL(address)
	if err != nil {
		return nil, entity.NewWalletError(entity.KindFetchFailed, "build txlist url", err)
	}
	logURL := c.redact(requestURL)
	c.logger.Debug("Requesting transaction list from explorer", zap.String("url", logURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else if c.timeout > 0 {
		err = c.client.DoTimeout(req, resp, c.timeout)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to explorer", zap.String("url", logURL), zap.Error(err))
		return nil, entity.NewWalletError(entity.KindFetchFailed, "txlist request", err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Explorer API request failed",
			zap.String("url", logURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, entity.NewWalletError(entity.KindFetchFailed, "txlist request",
			fmt.Errorf("explorer responded with status %d", resp.StatusCode()))
	}

	var envelope txListEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		c.logger.Error("Failed to unmarshal explorer response", zap.String("url", logURL), zap.Error(err))
		return nil, entity.NewWalletError(entity.KindFetchFailed, "decode txlist", err)
	}

	if envelope.Status != "1" {
		reason := envelope.Message
		var resultText string
		if err := json.Unmarshal(envelope.Result, &resultText); err == nil && resultText != "" {
			reason = reason + ": " + resultText
		}
		c.logger.Warn("Explorer rejected txlist request",
			zap.String("address", address),
			zap.String("status", envelope.Status),
			zap.String("reason", reason))
		return nil, entity.NewWalletError(entity.KindIndexerRejected, "txlist", fmt.Errorf("status %q: %s", envelope.Status, reason))
	}

	var raw []explorerTx
	if err := json.Unmarshal(envelope.Result, &raw); err != nil {
		c.logger.Error("Failed to unmarshal explorer result list", zap.String("url", logURL), zap.Error(err))
		return nil, entity.NewWalletError(entity.KindFetchFailed, "decode txlist result", err)
	}

	raw = utils.ApplyWindow(raw, c.window)
	txs := make([]entity.Transaction, 0, len(raw))
	for _, item := range raw {
		tx, err := c.toTransaction(item)
		if err != nil {
			return nil, entity.NewWalletError(entity.KindFetchFailed, "decode txlist entry", err)
		}
		txs = append(txs, tx)
	}

	c.logger.Debug("Fetched transactions from explorer",
		zap.String("address", address),
		zap.Int("received", len(raw)),
		zap.Int("returned", len(txs)))
	return txs, nil
}

func (c *Client) toTransaction(item explorerTx) (entity.Transaction, error) {
	value, err := utils.ParseUnits(item.Value, c.dec)
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("tx %s: %w", item.Hash, err)
	}
	tx := entity.Transaction{
		Hash:  item.Hash,
		From:  item.From,
		To:    item.To,
		Value: value,
	}
	if tx.To == "" {
		// contract creation
		tx.To = item.ContractAddress
	}
	if item.TimeStamp != "" {
		seconds, err := utils.ParseUnixSeconds(item.TimeStamp)
		if err != nil {
			return entity.Transaction{}, fmt.Errorf("tx %s: %w", item.Hash, err)
		}
		tx.Timestamp = utils.FormatUnixSeconds(seconds, c.layout, c.loc)
	}
	return tx, nil
}

func (c *Client) txListURL(address string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("module", "account")
	q.Set("action", "txlist")
	q.Set("address", address)
	q.Set("startblock", "0")
	q.Set("endblock", "99999999")
	q.Set("sort", "desc")
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) redact(requestURL string) string {
	if c.apiKey == "" {
		return requestURL
	}
	return strings.ReplaceAll(requestURL, url.QueryEscape(c.apiKey), "REDACTED")
}
