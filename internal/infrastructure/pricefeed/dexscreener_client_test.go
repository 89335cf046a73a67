package pricefeed

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func serve(t *testing.T, handler fasthttp.RequestHandler) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &fasthttp.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestDecodesArrayResponse(t *testing.T) {
	var path string
	base := serve(t, func(ctx *fasthttp.RequestCtx) {
		path = string(ctx.Path())
		ctx.SetBodyString(`[{"pairAddress":"0xp","baseToken":{"address":"0xAA","symbol":"WRMB"},"quoteToken":{"symbol":"USDT"},"priceUsd":"0.1402","liquidity":{"usd":1200}}]`)
	})
	c := NewDEXScreenerClient(base, time.Second, zap.NewNop(), 30)

	pairs, err := c.TokenPairs(context.Background(), "ethereum", []string{"0xAA"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "/tokens/v1/ethereum/0xAA", path)
	assert.Equal(t, "0.1402", pairs[0].PriceUsd)
	assert.Equal(t, float64(1200), pairs[0].LiquidityUSD())
}

func TestDecodesWrappedResponse(t *testing.T) {
	base := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"schemaVersion":"1.0.0","pairs":[{"priceUsd":"1.0"}]}`)
	})
	c := NewDEXScreenerClient(base, time.Second, zap.NewNop(), 30)
	pairs, err := c.TokenPairs(context.Background(), "ethereum", []string{"0xAA"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Zero(t, pairs[0].LiquidityUSD())
}

func TestRejectsBadRequests(t *testing.T) {
	base := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
	})
	c := NewDEXScreenerClient(base, time.Second, zap.NewNop(), 1)

	_, err := c.TokenPairs(context.Background(), "ethereum", nil)
	assert.Error(t, err)
	_, err = c.TokenPairs(context.Background(), "ethereum", []string{"0x1"})
	assert.ErrorContains(t, err, "status 429")
}

func TestSplitsLargeLookups(t *testing.T) {
	var paths []string
	base := serve(t, func(ctx *fasthttp.RequestCtx) {
		paths = append(paths, string(ctx.Path()))
		ctx.SetBodyString(`[{"priceUsd":"1.0"}]`)
	})
	c := NewDEXScreenerClient(base, time.Second, zap.NewNop(), 2)

	pairs, err := c.TokenPairs(context.Background(), "bsc", []string{"0x1", "0x2", "0x3", "0x4", "0x5"})
	require.NoError(t, err)
	assert.Len(t, pairs, 3)
	assert.Equal(t, []string{"/tokens/v1/bsc/0x1,0x2", "/tokens/v1/bsc/0x3,0x4", "/tokens/v1/bsc/0x5"}, paths)
}
