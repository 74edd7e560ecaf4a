package restapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/app/service"
	"wallet_dashboard/internal/app/state"
	"wallet_dashboard/internal/app/view"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/infrastructure/session"
	"wallet_dashboard/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HandlerOptions hold presentation and cookie settings.
type HandlerOptions struct {
	Title          string
	Network        entity.NetworkDefinition
	RefreshSeconds int
	Strategy       string
	CookieName     string
	CookieMaxAge   time.Duration
	SecureCookie   bool
}

// APIError is the error part of a JSON response.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// APIStateResponse is the JSON form of a session state.
type APIStateResponse struct {
	Phase        string               `json:"phase"`
	Account      string               `json:"account,omitempty"`
	Balance      string               `json:"balance,omitempty"`
	Symbol       string               `json:"symbol"`
	Transactions []entity.Transaction `json:"transactions"`
	Error        *APIError            `json:"error,omitempty"`
}

// APIAccountResponse is the JSON form of a direct account fetch.
type APIAccountResponse struct {
	Address      string               `json:"address"`
	Balance      string               `json:"balance,omitempty"`
	Symbol       string               `json:"symbol"`
	Transactions []entity.Transaction `json:"transactions"`
	Error        *APIError            `json:"error,omitempty"`
}

// WalletHandler serves the dashboard page and its JSON API.
type WalletHandler struct {
	connector port.WalletConnector
	accounts  port.AccountService
	bridges   port.BridgeProvider
	sessions  *session.Store
	opts      HandlerOptions
	logger    port.Logger

	fetches sync.WaitGroup
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	connector port.WalletConnector,
	accounts port.AccountService,
	bridges port.BridgeProvider,
	sessions *session.Store,
	opts HandlerOptions,
	logger port.Logger,
) *WalletHandler {
	if opts.CookieName == "" {
		opts.CookieName = "wallet_session"
	}
	return &WalletHandler{
		connector: connector,
		accounts:  accounts,
		bridges:   bridges,
		sessions:  sessions,
		opts:      opts,
		logger:    logger,
	}
}

// Wait blocks until background fetches have finished.
func (h *WalletHandler) Wait() {
	h.fetches.Wait()
}

// IndexHandler renders the page for the caller's session.
func (h *WalletHandler) IndexHandler(c *gin.Context) {
	id := h.sessionID(c)
	st := h.sessions.Get(id)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	err := view.Render(c.Writer, view.Model{
		Title:          h.opts.Title,
		Network:        h.opts.Network,
		RefreshSeconds: h.opts.RefreshSeconds,
		State:          st,
	})
	if err != nil {
		h.logger.Error("Failed to render page", "session", id, "error", err)
		_ = c.Error(err)
	}
}

// ConnectHandler prompts the wallet, starts the account fetch in the
// background and sends the browser back to the page.
func (h *WalletHandler) ConnectHandler(c *gin.Context) {
	id := h.sessionID(c)
	h.connect(c.Request.Context(), id, false)
	c.Redirect(http.StatusSeeOther, "/")
}

// DisconnectHandler forgets the session's account.
func (h *WalletHandler) DisconnectHandler(c *gin.Context) {
	id := h.sessionID(c)
	h.sessions.Dispatch(id, state.Disconnected{})
	h.logger.Info("Session disconnected", "session", id)
	c.Redirect(http.StatusSeeOther, "/")
}

// GetStateHandler returns the caller's session state.
func (h *WalletHandler) GetStateHandler(c *gin.Context) {
	st := h.sessions.Get(h.sessionID(c))
	h.writeJSON(c, http.StatusOK, h.stateResponse(st))
}

// ConnectAPIHandler connects and fetches within the request.
func (h *WalletHandler) ConnectAPIHandler(c *gin.Context) {
	id := h.sessionID(c)
	st := h.connect(c.Request.Context(), id, true)

	status := http.StatusOK
	if st.Err != nil {
		status = statusFor(st.Err)
	}
	h.writeJSON(c, status, h.stateResponse(st))
}

// GetAccountHandler fetches balance and transactions for any address,
// bypassing the session.
func (h *WalletHandler) GetAccountHandler(c *gin.Context) {
	address := strings.TrimSpace(c.Param("address"))
	if !common.IsHexAddress(address) {
		h.writeJSON(c, http.StatusBadRequest, APIAccountResponse{
			Address: address,
			Symbol:  h.opts.Network.NativeSymbol,
			Error:   &APIError{Kind: "InvalidAddress", Message: "Address must be a 20-byte hex string."},
		})
		return
	}

	data, err := h.accounts.FetchAccountData(c.Request.Context(), address)
	resp := APIAccountResponse{
		Address:      address,
		Symbol:       h.opts.Network.NativeSymbol,
		Transactions: nonNil(data.Transactions),
	}
	if data.HasBalance() {
		resp.Balance = data.Balance
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = apiError(err)
		status = statusFor(err)
	}
	h.writeJSON(c, status, resp)
}

// HealthHandler reports liveness and whether a wallet bridge is present.
func (h *WalletHandler) HealthHandler(c *gin.Context) {
	h.writeJSON(c, http.StatusOK, gin.H{
		"status":   "ok",
		"bridge":   service.DetectBridge(h.bridges.Bridge()),
		"strategy": h.opts.Strategy,
		"network":  h.opts.Network.Name,
		"sessions": h.sessions.Len(),
	})
}

// connect runs the connect flow for a session. With wait set the fetch runs
// inline; otherwise it runs in the background and the Loading state is returned.
func (h *WalletHandler) connect(ctx context.Context, id string, wait bool) state.State {
	address, err := h.connector.Connect(ctx)
	if err != nil {
		h.logger.Warn("Connect failed", "session", id, "kind", entity.KindOf(err).String())
		return h.sessions.Dispatch(id, state.ConnectFailed{Err: err})
	}

	st := h.sessions.Dispatch(id, state.Connected{Account: address})
	if wait {
		return h.fetch(ctx, id, address, st.Token)
	}

	// the fetch outlives the redirect
	bg := context.WithoutCancel(ctx)
	h.fetches.Add(1)
	go func() {
		defer h.fetches.Done()
		h.fetch(bg, id, address, st.Token)
	}()
	return st
}

func (h *WalletHandler) fetch(ctx context.Context, id, address string, token uint64) state.State {
	data, err := h.accounts.FetchAccountData(ctx, address)

	var ev state.Event = state.DataLoaded{Token: token, Data: data}
	if err != nil {
		ev = state.DataFailed{Token: token, Err: err, Partial: data}
	}
	st := h.sessions.Dispatch(id, ev)
	if st.Token != token || st.Account != address {
		metrics.StaleResultsTotal.Inc()
		h.logger.Debug("Dropped stale fetch result", "session", id, "token", token, "current_token", st.Token)
	}
	return st
}

func (h *WalletHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(h.opts.CookieName); err == nil && id != "" {
		return id
	}
	id := session.NewID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, id, int(h.opts.CookieMaxAge.Seconds()), "/", "", h.opts.SecureCookie, true)
	return id
}

func (h *WalletHandler) stateResponse(st state.State) APIStateResponse {
	resp := APIStateResponse{
		Phase:        st.Phase.String(),
		Account:      st.Account,
		Balance:      st.Balance,
		Symbol:       h.opts.Network.NativeSymbol,
		Transactions: nonNil(st.Transactions),
	}
	if st.Err != nil {
		resp.Error = apiError(st.Err)
	}
	return resp
}

func (h *WalletHandler) writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func apiError(err error) *APIError {
	return &APIError{Kind: entity.KindOf(err).String(), Message: entity.UserMessage(err)}
}

// statusFor maps an error kind to the HTTP status of JSON responses.
func statusFor(err error) int {
	switch entity.KindOf(err) {
	case entity.KindBridgeUnavailable, entity.KindConfigMissing:
		return http.StatusServiceUnavailable
	case entity.KindConnectionRejected:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func nonNil(txs []entity.Transaction) []entity.Transaction {
	if txs == nil {
		return []entity.Transaction{}
	}
	return txs
}
