package restapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"wrmb_dapp/internal/app"
	"wrmb_dapp/internal/app/store"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ActionRequest is the body of a product action.
type ActionRequest struct {
	Amount string `json:"amount"`
	BondID uint64 `json:"bondId"`
}

// ActionResponse describes the mined transaction of an action.
type ActionResponse struct {
	TxHash      string `json:"txHash"`
	BlockNumber string `json:"blockNumber,omitempty"`
	Status      uint64 `json:"status"`
}

type (
	actionFunc  func(ctx context.Context, req ActionRequest) (*types.Receipt, error)
	previewFunc func(ctx context.Context, amount string) (entity.Preview, error)
)

// productRoutes binds one store to the generic product endpoints.
type productRoutes struct {
	store    app.Product
	snapshot func() any
	previews map[string]previewFunc
	// defaultPreview is used when the kind query parameter is empty.
	defaultPreview string
	actions        map[string]actionFunc
}

// Handler serves the client API over an App.
type Handler struct {
	app      *app.App
	products map[string]productRoutes
	logger   *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(a *app.App, logger *zap.Logger) *Handler {
	return &Handler{app: a, products: productTable(a.Stores), logger: logger.Named("restapi")}
}

func productTable(s app.Stores) map[string]productRoutes {
	amount := func(fn func(context.Context, string) (*types.Receipt, error)) actionFunc {
		return func(ctx context.Context, req ActionRequest) (*types.Receipt, error) { return fn(ctx, req.Amount) }
	}
	bare := func(fn func(context.Context) (*types.Receipt, error)) actionFunc {
		return func(ctx context.Context, _ ActionRequest) (*types.Receipt, error) { return fn(ctx) }
	}

	return map[string]productRoutes{
		s.Savings.Name(): {
			store:    s.Savings,
			snapshot: func() any { return s.Savings.Snapshot() },
			previews: map[string]previewFunc{
				store.ActionDeposit:  s.Savings.PreviewDeposit,
				store.ActionWithdraw: s.Savings.PreviewWithdraw,
				store.ActionRedeem:   s.Savings.PreviewRedeem,
			},
			defaultPreview: store.ActionDeposit,
			actions: map[string]actionFunc{
				store.ActionDeposit:  amount(s.Savings.Deposit),
				store.ActionWithdraw: amount(s.Savings.Withdraw),
				store.ActionRedeem:   amount(s.Savings.Redeem),
			},
		},
		s.Staking.Name(): {
			store:    s.Staking,
			snapshot: func() any { return s.Staking.Snapshot() },
			actions: map[string]actionFunc{
				store.ActionStake:   amount(s.Staking.Stake),
				store.ActionUnstake: amount(s.Staking.Unstake),
				store.ActionClaim:   bare(s.Staking.ClaimRewards),
			},
		},
		s.Farm.Name(): {
			store:    s.Farm,
			snapshot: func() any { return s.Farm.Snapshot() },
			previews: map[string]previewFunc{
				store.ActionDeposit: func(_ context.Context, v string) (entity.Preview, error) { return s.Farm.PreviewDeposit(v) },
			},
			defaultPreview: store.ActionDeposit,
			actions: map[string]actionFunc{
				store.ActionDeposit:  amount(s.Farm.Deposit),
				store.ActionWithdraw: amount(s.Farm.Withdraw),
				store.ActionClaim:    bare(s.Farm.Claim),
			},
		},
		s.Bonds.Name(): {
			store:    s.Bonds,
			snapshot: func() any { return s.Bonds.Snapshot() },
			previews: map[string]previewFunc{
				store.ActionSubscribe: s.Bonds.PreviewSubscription,
			},
			defaultPreview: store.ActionSubscribe,
			actions: map[string]actionFunc{
				store.ActionSubscribe: amount(s.Bonds.Subscribe),
				store.ActionMature: func(ctx context.Context, req ActionRequest) (*types.Receipt, error) {
					return s.Bonds.Mature(ctx, req.BondID)
				},
			},
		},
		s.Wrap.Name(): {
			store:    s.Wrap,
			snapshot: func() any { return s.Wrap.Snapshot() },
			previews: map[string]previewFunc{
				store.ActionWrap:   s.Wrap.PreviewWrap,
				store.ActionUnwrap: s.Wrap.PreviewUnwrap,
			},
			defaultPreview: store.ActionWrap,
			actions: map[string]actionFunc{
				store.ActionWrap:   amount(s.Wrap.Wrap),
				store.ActionUnwrap: amount(s.Wrap.Unwrap),
			},
		},
	}
}

// GetSession returns the wallet session.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"session":     h.app.Session.Snapshot(),
		"autoRefresh": h.app.AutoRefresh(),
	}})
}

// Connect requests wallet access. Stores load in the background once connected.
func (h *Handler) Connect(c *gin.Context) {
	if err := h.app.Session.Connect(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.app.Session.Snapshot()})
}

// Disconnect drops the session and resets every store.
func (h *Handler) Disconnect(c *gin.Context) {
	h.app.Session.Disconnect()
	c.JSON(http.StatusOK, gin.H{"data": h.app.Session.Snapshot()})
}

// RefreshBalance reloads the native balance in the background.
func (h *Handler) RefreshBalance(c *gin.Context) {
	if !h.app.Session.Snapshot().Connected {
		h.fail(c, apperr.WalletNotConnected())
		return
	}
	h.app.Session.RefreshBalance()
	c.JSON(http.StatusAccepted, gin.H{"data": h.app.Session.Snapshot()})
}

// SwitchNetwork asks the wallet to move to another chain.
func (h *Handler) SwitchNetwork(c *gin.Context) {
	var req struct {
		ChainID uint64 `json:"chainId"`
	}
	if err := decode(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.ChainID == 0 {
		h.fail(c, apperr.InvalidInput("chainId is required"))
		return
	}
	if err := h.app.Session.SwitchNetwork(c.Request.Context(), req.ChainID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.app.Session.Snapshot()})
}

// GetNetworks lists the known networks.
func (h *Handler) GetNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.app.Networks.GetAllNetworkDefinitions()})
}

// GetContracts lists contract addresses for chainId, or for the session's chain.
func (h *Handler) GetContracts(c *gin.Context) {
	raw := c.Query("chainId")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"data": h.app.Registry.CurrentAddresses()})
		return
	}
	chainID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.fail(c, apperr.InvalidInput("Invalid chainId %q", raw))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.app.Registry.AddressesForChain(chainID)})
}

// GetProduct returns a store snapshot and its in-flight actions.
func (h *Handler) GetProduct(name string) gin.HandlerFunc {
	p := h.products[name]
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": p.snapshot(), "inFlight": p.store.InFlight()})
	}
}

// RefreshProduct fetches a store now and returns the new snapshot.
func (h *Handler) RefreshProduct(name string) gin.HandlerFunc {
	p := h.products[name]
	return func(c *gin.Context) {
		if err := p.store.Fetch(c.Request.Context()); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": p.snapshot(), "inFlight": p.store.InFlight()})
	}
}

// Preview estimates the outcome of an amount for the given kind.
func (h *Handler) Preview(name string) gin.HandlerFunc {
	p := h.products[name]
	return func(c *gin.Context) {
		kind := c.DefaultQuery("kind", p.defaultPreview)
		fn, ok := p.previews[kind]
		if !ok {
			h.fail(c, apperr.InvalidInput("No %q preview for %s", kind, name))
			return
		}
		preview, err := fn(c.Request.Context(), c.Query("amount"))
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": preview})
	}
}

// Action runs a product transaction and waits for its receipt.
func (h *Handler) Action(name string) gin.HandlerFunc {
	p := h.products[name]
	return func(c *gin.Context) {
		action := c.Param("action")
		fn, ok := p.actions[action]
		if !ok {
			c.JSON(http.StatusNotFound, errorBody(apperr.InvalidInput("Unknown %s action %q", name, action)))
			return
		}
		var req ActionRequest
		if err := decode(c, &req); err != nil {
			h.fail(c, err)
			return
		}
		receipt, err := fn(c.Request.Context(), req)
		if err != nil {
			h.fail(c, err)
			return
		}
		resp := ActionResponse{TxHash: receipt.TxHash.Hex(), Status: receipt.Status}
		if receipt.BlockNumber != nil {
			resp.BlockNumber = receipt.BlockNumber.String()
		}
		// Gas was spent, so the native balance moved too.
		h.app.Session.RefreshBalance()
		h.logger.Info("Action completed", zap.String("product", name), zap.String("action", action), zap.String("tx", resp.TxHash))
		c.JSON(http.StatusOK, gin.H{"data": resp})
	}
}

// SwapQuote prices an exact-input swap: ?in=WRMB&out=USDT&amount=1000&fee=500.
func (h *Handler) SwapQuote(c *gin.Context) {
	in, ok := entity.TokenBySymbol(c.Query("in"))
	if !ok {
		h.fail(c, apperr.InvalidInput("Unknown token %q", c.Query("in")))
		return
	}
	out, ok := entity.TokenBySymbol(c.Query("out"))
	if !ok {
		h.fail(c, apperr.InvalidInput("Unknown token %q", c.Query("out")))
		return
	}
	var fee uint32
	if raw := c.Query("fee"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			h.fail(c, apperr.InvalidInput("Invalid fee %q", raw))
			return
		}
		fee = uint32(v)
	}
	quote, err := h.app.Swap.Quote(c.Request.Context(), in, out, c.Query("amount"), fee)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// ListNotifications returns the live notifications, oldest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.app.Notifications.List()})
}

// ClearNotifications removes every notification.
func (h *Handler) ClearNotifications(c *gin.Context) {
	h.app.Notifications.Clear()
	c.Status(http.StatusNoContent)
}

// RemoveNotification dismisses one notification.
func (h *Handler) RemoveNotification(c *gin.Context) {
	if !h.app.Notifications.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"kind": "NOT_FOUND", "message": "Notification not found"}})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPreferences returns the stored preferences.
func (h *Handler) GetPreferences(c *gin.Context) {
	if h.app.Preferences == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"kind": "NOT_FOUND", "message": "Preferences are not persisted"}})
		return
	}
	prefs, err := h.app.Preferences.Load()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": prefs})
}

// PutPreferences updates the theme and/or locale.
func (h *Handler) PutPreferences(c *gin.Context) {
	if h.app.Preferences == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"kind": "NOT_FOUND", "message": "Preferences are not persisted"}})
		return
	}
	var req struct {
		Theme  string `json:"theme"`
		Locale string `json:"locale"`
	}
	if err := decode(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Theme != "" {
		if err := h.app.Preferences.SetTheme(req.Theme); err != nil {
			h.fail(c, err)
			return
		}
	}
	if req.Locale != "" {
		if err := h.app.Preferences.SetLocale(req.Locale); err != nil {
			h.fail(c, err)
			return
		}
	}
	h.GetPreferences(c)
}

// decode reads an optional JSON body into v.
func decode(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.InvalidInput("Malformed request body: %v", err)
	}
	return nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	classified := apperr.Classify(err)
	_ = c.Error(err)
	c.JSON(statusFor(classified.Kind), errorBody(classified))
}

func errorBody(e *apperr.Error) gin.H {
	body := gin.H{"kind": e.Kind, "message": e.Message}
	if e.Reason != "" {
		body["reason"] = e.Reason
	}
	return gin.H{"error": body}
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindWalletNotConnected:
		return http.StatusConflict
	case apperr.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}
