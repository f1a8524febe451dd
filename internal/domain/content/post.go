package content

import (
	"strings"
	"time"
)

// Source 标记一次解析结果来自哪个内容后端
type Source string

const (
	SourceMicroCMS Source = "microcms"
	SourceLocal    Source = "local"
)

type Media struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// HeroImage 两种形态：远端是结构化 Media，本地是裸路径。调用方需要同时处理。
type HeroImage struct {
	Media *Media `json:"media,omitempty"`
	Path  string `json:"path,omitempty"`
}

func (h HeroImage) IsZero() bool {
	return h.Media == nil && h.Path == ""
}

// ListItem 列表页统一形态，两个内容源都归一化到这里
type ListItem struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags"`
	CreatedAt string    `json:"createdAt"`
	RevisedAt string    `json:"revisedAt,omitempty"`
	Hero      HeroImage `json:"heroImage,omitzero"`
}

// Detail 在 ListItem 之上带完整正文 HTML
type Detail struct {
	ListItem
	ContentHTML string `json:"contentHtml"`
}

type Author struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Company    string `json:"company,omitempty"`
	Email      string `json:"email,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	GitHub     string `json:"github,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	BodyHTML   string `json:"bodyHtml,omitempty"`
}

// PostResult 按来源打标签的详情结果；Authors 只在本地变体里出现
type PostResult struct {
	Source  Source   `json:"source"`
	Post    Detail   `json:"post"`
	Authors []Author `json:"authors,omitempty"`
}

// AboutResult 同样按来源打标签；本地变体携带作者完整档案
type AboutResult struct {
	Source      Source  `json:"source"`
	ContentHTML string  `json:"contentHtml,omitempty"`
	Author      *Author `json:"author,omitempty"`
}

// PostMeta 本地编译产物的元数据，入索引
type PostMeta struct {
	Slug    string
	Title   string
	Date    time.Time
	Lastmod time.Time
	Summary string
	Tags    []string
	Images  []string
	Authors []string
	Draft   bool
}

func (m *PostMeta) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Slug = strings.TrimSpace(m.Slug)
	m.Summary = strings.TrimSpace(m.Summary)

	m.Tags = normalizeStrings(m.Tags)
	m.Authors = normalizeStrings(m.Authors)
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
