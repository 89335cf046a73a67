// Package pricefeed fetches token prices from DEX Screener.
package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wrmb_dapp/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client looks up the trading pairs of token addresses.
type Client interface {
	TokenPairs(ctx context.Context, chainID string, addresses []string) ([]PairData, error)
}

type dexScreenerClient struct {
	http     *fasthttp.Client
	baseURL  string
	timeout  time.Duration
	perQuery int
	logger   *zap.Logger
}

// NewDEXScreenerClient creates a client against baseURL. Lookups larger than
// perQuery addresses are split into several requests.
func NewDEXScreenerClient(baseURL string, timeout time.Duration, logger *zap.Logger, perQuery int) Client {
	return &dexScreenerClient{
		http:     &fasthttp.Client{Name: "wrmb-dapp"},
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		perQuery: perQuery,
		logger:   logger.Named("DEXScreenerClient"),
	}
}

func (c *dexScreenerClient) TokenPairs(ctx context.Context, chainID string, addresses []string) ([]PairData, error) {
	if len(addresses) == 0 {
		return nil, errors.New("no token addresses to look up")
	}
	var pairs []PairData
	for _, chunk := range utils.Chunk(addresses, c.perQuery) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := c.get(ctx, fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, chainID, strings.Join(chunk, ",")))
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, got...)
	}
	if len(pairs) == 0 {
		c.logger.Warn("DEX Screener returned no pairs", zap.Strings("addresses", addresses))
	}
	return pairs, nil
}

func (c *dexScreenerClient) get(ctx context.Context, url string) ([]PairData, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.logger.Debug("Requesting token pairs", zap.String("url", url))
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("dexscreener %s: %w", url, err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		c.logger.Warn("DEX Screener request failed", zap.String("url", url), zap.Int("status", code), zap.ByteString("body", resp.Body()))
		return nil, fmt.Errorf("dexscreener %s: status %d", url, code)
	}
	return decodePairs(resp.Body())
}

// decodePairs accepts both the bare array and the {"pairs": [...]} envelope.
func decodePairs(body []byte) ([]PairData, error) {
	var wrapped TokenPairs
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Pairs != nil {
		return wrapped.Pairs, nil
	}
	var pairs []PairData
	if err := json.Unmarshal(body, &pairs); err != nil {
		return nil, fmt.Errorf("decode dexscreener response: %w", err)
	}
	return pairs, nil
}
