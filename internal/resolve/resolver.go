package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"myblog/internal/domain/content"
	"myblog/internal/localcontent"
	"myblog/internal/microcms"
)

// ErrNotFound 两个源都查过且确实没有这条记录。是正常的终态，不是故障。
var ErrNotFound = errors.New("resolve: not found")

var errEmptyAbout = errors.New("resolve: remote about content is empty")

const listLimit = 100

// Resolver 决定内容从哪来：远端启用则先试远端，失败（或内容为空）回落本地。
// 一次调用只有一个源说了算，不做跨源合并。
type Resolver struct {
	cms   *microcms.Client
	local *localcontent.Provider
	log   *logrus.Logger
}

func New(cms *microcms.Client, local *localcontent.Provider, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{cms: cms, local: local, log: log}
}

// AllPosts 永远返回一个序列（可能为空），不向调用方抛失败
func (r *Resolver) AllPosts(ctx context.Context) []content.ListItem {
	if r.cms.Enabled() {
		resp, err := r.cms.ListBlogs(ctx, listLimit, "-publishedAt")
		if err == nil {
			items := make([]content.ListItem, 0, len(resp.Contents))
			for _, e := range resp.Contents {
				items = append(items, remoteListItem(e))
			}
			return items
		}
		r.log.WithError(err).Warn("microcms list fetch failed, falling back to local posts")
	}

	metas, err := r.local.Posts()
	if err != nil {
		r.log.WithError(err).Error("local post listing failed")
		return []content.ListItem{}
	}
	items := make([]content.ListItem, 0, len(metas))
	for _, m := range metas {
		items = append(items, localListItem(m))
	}
	return items
}

func (r *Resolver) PostBySlug(ctx context.Context, slug string) (*content.PostResult, error) {
	if r.cms.Enabled() {
		entry, err := r.cms.BlogDetail(ctx, slug)
		if err == nil {
			return &content.PostResult{
				Source: content.SourceMicroCMS,
				Post:   remoteDetail(entry),
			}, nil
		}
		r.log.WithError(err).WithField("slug", slug).
			Warn("microcms detail fetch failed, falling back to local post")
	}

	post, ok := r.local.PostBySlug(slug)
	if !ok {
		return nil, ErrNotFound
	}

	authors := r.resolveAuthors(post.Meta.Authors)
	detail := content.Detail{
		ListItem:    localListItem(post.Meta),
		ContentHTML: post.BodyHTML,
	}
	return &content.PostResult{
		Source:  content.SourceLocal,
		Post:    detail,
		Authors: authors,
	}, nil
}

// resolveAuthors 把声明的作者 slug 对到本地作者集，空或全部无效时兜底默认作者
func (r *Resolver) resolveAuthors(names []string) []content.Author {
	authors := make([]content.Author, 0, len(names))
	for _, name := range names {
		if a, ok := r.local.Author(name); ok {
			authors = append(authors, a)
		}
	}
	if len(authors) == 0 {
		authors = append(authors, r.local.DefaultAuthor())
	}
	return authors
}

// About 空的远端 about 正文视同拉取失败，一样回落本地
func (r *Resolver) About(ctx context.Context) content.AboutResult {
	if r.cms.Enabled() {
		resp, err := r.cms.About(ctx, 1)
		if err == nil {
			if len(resp.Contents) > 0 && strings.TrimSpace(resp.Contents[0].AboutMe) != "" {
				return content.AboutResult{
					Source:      content.SourceMicroCMS,
					ContentHTML: resp.Contents[0].AboutMe,
				}
			}
			err = errEmptyAbout
		}
		r.log.WithError(err).Warn("microcms about fetch failed, falling back to local author")
	}

	author := r.local.DefaultAuthor()
	return content.AboutResult{
		Source: content.SourceLocal,
		Author: &author,
	}
}

// DraftPost 草稿只存在于远端，没有回退路径：未启用直接 ErrDisabled，失败原样上抛
func (r *Resolver) DraftPost(ctx context.Context, id, draftKey string) (*content.PostResult, error) {
	entry, err := r.cms.BlogDraft(ctx, id, draftKey)
	if err != nil {
		r.log.WithError(err).WithField("id", id).Warn("draft preview fetch failed")
		return nil, err
	}
	return &content.PostResult{
		Source: content.SourceMicroCMS,
		Post:   remoteDetail(entry),
	}, nil
}
