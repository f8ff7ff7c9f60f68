package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/cristianortiz/auctionDetail/internal/shared/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var log = logger.GetLogger()

// maxBodySize bounds how much of an answer is read.
const maxBodySize = 1 << 20

type ClientConfig struct {
	BaseURL string
	// Timeout of one request; ignored when HTTPClient is set.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements domain.AuctionGateway over the auction service REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	fetches *singleflight.Group
}

var _ domain.AuctionGateway = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote client: base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("remote client: base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		fetches: &singleflight.Group{},
	}, nil
}

// WithToken returns a client sending token as bearer credentials. The
// connection pool is shared with c.
func (c *Client) WithToken(token string) *Client {
	out := *c
	out.token = strings.Clone(token)
	return &out
}

// FetchDetail loads an item with its bid history. Concurrent fetches of the
// same item with the same credentials share one request; each caller still
// stops waiting when its own ctx is done.
func (c *Client) FetchDetail(ctx context.Context, itemID string, opts domain.FetchOptions) (*domain.DetailResponse, error) {
	path := "/api/items/" + url.PathEscape(itemID)
	if opts.BidHistoryLimit > 0 {
		path += "?bidHistoryLimit=" + strconv.Itoa(opts.BidHistoryLimit)
	}
	key := itemID + "|" + strconv.Itoa(opts.BidHistoryLimit) + "|" + c.token

	// the shared request must not die with the caller that started it
	shared := context.WithoutCancel(ctx)
	ch := c.fetches.DoChan(key, func() (interface{}, error) {
		var resp domain.DetailResponse
		if err := c.do(shared, "fetch detail", http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.TransportError{Op: "fetch detail", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug("Detail fetch shared", zap.String("itemID", itemID))
		}
		// callers own their copy
		out := *res.Val.(*domain.DetailResponse)
		return &out, nil
	}
}

func (c *Client) SubmitBid(ctx context.Context, itemID string, bidPrice int64) (*domain.BidResponse, error) {
	body := struct {
		BidPrice int64 `json:"bidPrice"`
	}{BidPrice: bidPrice}

	var resp domain.BidResponse
	if err := c.do(ctx, "submit bid", http.MethodPost, "/api/auctions/"+url.PathEscape(itemID)+"/bids", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Like(ctx context.Context, itemID string) (*domain.ActionResponse, error) {
	return c.like(ctx, "like", http.MethodPost, itemID)
}

func (c *Client) Unlike(ctx context.Context, itemID string) (*domain.ActionResponse, error) {
	return c.like(ctx, "unlike", http.MethodDelete, itemID)
}

func (c *Client) like(ctx context.Context, op, method, itemID string) (*domain.ActionResponse, error) {
	var resp domain.ActionResponse
	if err := c.do(ctx, op, method, "/api/items/"+url.PathEscape(itemID)+"/like", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends one request and decodes a 2xx answer into out. An empty 2xx body
// counts as {"isSuccess": true}.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		log.Error("Auction service request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &domain.TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return &domain.TransportError{Op: op, StatusCode: res.StatusCode, Err: err}
	}
	log.Debug("Auction service answered",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &domain.TransportError{Op: op, StatusCode: res.StatusCode, Body: body}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte(`{"isSuccess":true}`)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.ParseError{Field: "body", Reason: op + " answer is not valid JSON", Err: err}
	}
	return nil
}
