package microcms

import (
	"context"
	"net/url"
	"strconv"
)

type Request struct {
	Path   string
	Params url.Values

	// 草稿预览不能吃新鲜度缓存
	noCache bool
}

func (r Request) Encode() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Params.Encode()
}

func (r Request) cacheable() bool {
	return !r.noCache
}

func (c *Client) ListBlogs(ctx context.Context, limit int, orders string) (ListResponse[BlogEntry], error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if orders != "" {
		params.Set("orders", orders)
	}

	var resp ListResponse[BlogEntry]
	err := c.Get(ctx, Request{Path: c.cfg.BlogEndpoint, Params: params}, &resp)
	return resp, err
}

func (c *Client) BlogDetail(ctx context.Context, slug string) (BlogEntry, error) {
	var entry BlogEntry
	err := c.Get(ctx, Request{Path: c.cfg.BlogEndpoint + "/" + url.PathEscape(slug)}, &entry)
	return entry, err
}

func (c *Client) About(ctx context.Context, limit int) (ListResponse[AboutEntry], error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp ListResponse[AboutEntry]
	err := c.Get(ctx, Request{Path: c.cfg.AboutEndpoint, Params: params}, &resp)
	return resp, err
}

// BlogDraft draftKey 是能力令牌，透传给远端，失败由调用方处理（没有本地回退）
func (c *Client) BlogDraft(ctx context.Context, id, draftKey string) (BlogEntry, error) {
	params := url.Values{}
	params.Set("draftKey", draftKey)

	var entry BlogEntry
	err := c.Get(ctx, Request{
		Path:    c.cfg.BlogEndpoint + "/" + url.PathEscape(id),
		Params:  params,
		noCache: true,
	}, &entry)
	return entry, err
}
