package resolve

import (
	"context"
	"sync"

	"myblog/internal/domain/content"
)

// Session 一次请求范围内的记忆化：同一函数 + 同一参数只算一次，
// 并发调用等待进行中的那次。跨请求不共享。
type Session struct {
	r *Resolver

	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

func (r *Resolver) NewSession() *Session {
	return &Session{
		r:     r,
		calls: make(map[string]*call),
	}
}

func (s *Session) do(key string, fn func() (any, error)) (any, error) {
	s.mu.Lock()
	if c, ok := s.calls[key]; ok {
		s.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &call{done: make(chan struct{})}
	s.calls[key] = c
	s.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)
	return c.val, c.err
}

func (s *Session) AllPosts(ctx context.Context) []content.ListItem {
	v, _ := s.do("all-posts", func() (any, error) {
		return s.r.AllPosts(ctx), nil
	})
	return v.([]content.ListItem)
}

func (s *Session) PostBySlug(ctx context.Context, slug string) (*content.PostResult, error) {
	v, err := s.do("post\x00"+slug, func() (any, error) {
		return s.r.PostBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return v.(*content.PostResult), nil
}

func (s *Session) About(ctx context.Context) content.AboutResult {
	v, _ := s.do("about", func() (any, error) {
		return s.r.About(ctx), nil
	})
	return v.(content.AboutResult)
}

func (s *Session) DraftPost(ctx context.Context, id, draftKey string) (*content.PostResult, error) {
	v, err := s.do("draft\x00"+id+"\x00"+draftKey, func() (any, error) {
		return s.r.DraftPost(ctx, id, draftKey)
	})
	if err != nil {
		return nil, err
	}
	return v.(*content.PostResult), nil
}
