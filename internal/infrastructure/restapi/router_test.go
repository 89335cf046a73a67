package restapi

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wrmb_dapp/internal/app"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/configloader"
	networkdefinition "wrmb_dapp/internal/infrastructure/network/definition"
	"wrmb_dapp/internal/infrastructure/prefstore"
	"wrmb_dapp/internal/infrastructure/wallet"
	"wrmb_dapp/internal/infrastructure/walletloader"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Data  map[string]any `json:"data"`
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) (*app.App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := configloader.Parse([]byte("dataSource:\n  default: simulated\nserver:\n  enableCORS: true\n"))
	require.NoError(t, err)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	prefs, err := prefstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = prefs.Close() })

	a, err := app.New(app.Options{
		Config:      cfg,
		Wallet:      wallet.NewKeystoreProvider(walletloader.Accounts{Keys: []*ecdsa.PrivateKey{key}}, cfg.Wallet.InitialChainID, nil, zap.NewNop()),
		Preferences: prefs,
		Networks:    networkdefinition.NewNetworkDefinitionProvider(logger.NewZapAdapter(zap.NewNop()), nil),
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, SetupRouter(a, zap.NewNop())
}

func do(t *testing.T, router *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func connect(t *testing.T, a *app.App, router *gin.Engine) {
	t.Helper()
	code, env := do(t, router, http.MethodPost, "/api/v1/session/connect", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env.Data["connected"])
	require.Eventually(t, func() bool { return a.Stores.Wrap.Status() == entity.StatusReady }, 3*time.Second, 10*time.Millisecond)
}

func TestActionRequiresConnection(t *testing.T) {
	a, router := newTestServer(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/wrap/actions/wrap", `{"amount":"100"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, string(apperr.KindWalletNotConnected), env.Error.Kind)
	assert.Len(t, a.Notifications.List(), 1)
}

func TestConnectAndWrap(t *testing.T) {
	a, router := newTestServer(t)
	connect(t, a, router)

	code, env := do(t, router, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, code)
	session, ok := env.Data["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, session["hasSigner"])

	code, env = do(t, router, http.MethodPost, "/api/v1/wrap/actions/wrap", `{"amount":"100"}`)
	require.Equal(t, http.StatusOK, code, env.Error.Message)
	assert.NotEmpty(t, env.Data["txHash"])

	code, env = do(t, router, http.MethodGet, "/api/v1/wrap", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1900", env.Data["srmbBalance"])

	code, env = do(t, router, http.MethodPost, "/api/v1/wrap/actions/unwrap", `{"amount":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(apperr.KindInvalidInput), env.Error.Kind)
}

func TestRefreshBalanceRoute(t *testing.T) {
	a, router := newTestServer(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/session/balance/refresh", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, string(apperr.KindWalletNotConnected), env.Error.Kind)

	connect(t, a, router)
	code, env = do(t, router, http.MethodPost, "/api/v1/session/balance/refresh", "")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, true, env.Data["connected"])
}

func TestRefreshAndDisconnect(t *testing.T) {
	a, router := newTestServer(t)
	connect(t, a, router)

	code, env := do(t, router, http.MethodPost, "/api/v1/bonds/refresh", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "5.00", env.Data["apy"])

	code, _ = do(t, router, http.MethodPost, "/api/v1/session/disconnect", "")
	require.Equal(t, http.StatusOK, code)
	code, env = do(t, router, http.MethodGet, "/api/v1/bonds", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(entity.StatusIdle), env.Data["status"])
}

func TestUnknownActionAndPreviewKind(t *testing.T) {
	_, router := newTestServer(t)

	code, _ := do(t, router, http.MethodPost, "/api/v1/savings/actions/borrow", `{"amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, router, http.MethodGet, "/api/v1/staking/preview?amount=1", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(apperr.KindInvalidInput), env.Error.Kind)

	code, _ = do(t, router, http.MethodPost, "/api/v1/savings/actions/deposit", `{"amount":[1]}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPreviews(t *testing.T) {
	_, router := newTestServer(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/savings/preview?amount=105", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "deposit", env.Data["kind"])
	assert.Equal(t, "100", env.Data["output"])

	code, env = do(t, router, http.MethodGet, "/api/v1/savings/preview?amount=100&kind=redeem", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "105", env.Data["output"])

	code, env = do(t, router, http.MethodGet, "/api/v1/farm/preview?amount=1000", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "999.00", env.Data["net"])
}

func TestSwapQuote(t *testing.T) {
	_, router := newTestServer(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/swap/quote?in=wrmb&out=USDT&amount=1000", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "139.93", env.Data["amountOut"])
	assert.Equal(t, "0.05", env.Data["priceImpact"])

	code, _ = do(t, router, http.MethodGet, "/api/v1/swap/quote?in=DOGE&out=USDT&amount=1", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, router, http.MethodGet, "/api/v1/swap/quote?in=WRMB&out=USDT&amount=1&fee=x", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNotifications(t *testing.T) {
	a, router := newTestServer(t)
	id := a.Notifications.Add(entity.NotificationInfo, "Hello", "world", 0)
	a.Notifications.Add(entity.NotificationInfo, "Second", "", 0)

	code, _ := do(t, router, http.MethodDelete, "/api/v1/notifications/"+id, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, router, http.MethodDelete, "/api/v1/notifications/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
	require.Len(t, a.Notifications.List(), 1)

	code, _ = do(t, router, http.MethodDelete, "/api/v1/notifications", "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, a.Notifications.List())
}

func TestPreferences(t *testing.T) {
	_, router := newTestServer(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/preferences", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, prefstore.DefaultTheme, env.Data["theme"])

	code, env = do(t, router, http.MethodPut, "/api/v1/preferences", `{"theme":"dark","locale":"zh"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "dark", env.Data["theme"])
	assert.Equal(t, "zh", env.Data["locale"])

	code, env = do(t, router, http.MethodPut, "/api/v1/preferences", `{"theme":"purple"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(apperr.KindInvalidInput), env.Error.Kind)
}

func TestContractsAndNetworks(t *testing.T) {
	_, router := newTestServer(t)

	code, _ := do(t, router, http.MethodGet, "/api/v1/contracts?chainId=abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, router, http.MethodGet, "/api/v1/contracts?chainId=11155111", "")
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chainId")
}

func TestMetricsEndpoint(t *testing.T) {
	a, router := newTestServer(t)
	a.Notifications.Notify(context.DeadlineExceeded)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusMapping(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindInvalidInput:       http.StatusBadRequest,
		apperr.KindWalletNotConnected: http.StatusConflict,
		apperr.KindNetwork:            http.StatusBadGateway,
		apperr.KindContractRevert:     http.StatusUnprocessableEntity,
		apperr.KindUserRejected:       http.StatusUnprocessableEntity,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), kind)
	}

	body := errorBody(&apperr.Error{Kind: apperr.KindContractRevert, Message: "Transaction reverted", Reason: "paused"})
	inner := body["error"].(gin.H)
	assert.Equal(t, "paused", inner["reason"])
}
