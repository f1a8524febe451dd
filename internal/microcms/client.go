package microcms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"myblog/internal/domain/config"
)

// ErrDisabled 配置未给齐 service domain + api key，调用立刻失败，不发请求
var ErrDisabled = errors.New("microcms: service domain and api key are not configured")

// APIError 非 2xx 响应
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("microcms: status %d: %s", e.StatusCode, e.Body)
}

const (
	defaultTimeout = 10 * time.Second
	// 内容允许滞后的新鲜度窗口，窗口内重复请求直接吃缓存
	defaultFreshness = 60 * time.Second
)

type cacheEntry struct {
	body      []byte
	fetchedAt time.Time
}

type Client struct {
	cfg     config.MicroCMSConfig
	baseURL string
	hc      *http.Client
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithBaseURL 测试时指向假服务
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

func WithTTL(d time.Duration) Option {
	return func(c *Client) {
		c.ttl = d
	}
}

func WithNow(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(cfg config.MicroCMSConfig, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		baseURL: fmt.Sprintf("https://%s.microcms.io/api/v1", cfg.ServiceDomain),
		hc:      &http.Client{Timeout: defaultTimeout},
		ttl:     defaultFreshness,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

// Get 对 baseURL+path 发一次带 API key 的 GET，把 JSON 解到 out 上
func (c *Client) Get(ctx context.Context, req Request, out any) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	full := c.baseURL + "/" + req.Encode()
	if req.cacheable() {
		if body, ok := c.cached(full); ok {
			return json.Unmarshal(body, out)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("microcms: build request %s: %w", req.Path, err)
	}
	httpReq.Header.Set("X-MICROCMS-API-KEY", c.cfg.APIKey)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("microcms: fetch %s: %w", req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("microcms: read response %s: %w", req.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if req.cacheable() {
		c.store(full, body)
	}
	return json.Unmarshal(body, out)
}

func (c *Client) cached(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.cache, key)
		return nil, false
	}
	return e.body, true
}

func (c *Client) store(key string, body []byte) {
	c.mu.Lock()
	c.cache[key] = cacheEntry{body: body, fetchedAt: c.now()}
	c.mu.Unlock()
}
