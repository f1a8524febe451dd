package microcms

// 列表端点统一返回这个包装；详情端点直接返回 T
type ListResponse[T any] struct {
	Contents   []T `json:"contents"`
	TotalCount int `json:"totalCount"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}

type Media struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// BlogEntry microCMS 博客记录的原始形态。id 直接复用为 slug。
type BlogEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Tags        string `json:"tags"` // "/" 分隔的单字符串
	MainContent string `json:"maincontent"`
	Pic         *Media `json:"pic,omitempty"`

	PublishedAt string `json:"publishedAt,omitempty"`
	RevisedAt   string `json:"revisedAt,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`

	// 手动回填发布日期用的覆盖字段
	OverwrotePublishedAt string `json:"overwrotePublishedAt,omitempty"`
}

type AboutEntry struct {
	AboutMe string `json:"aboutme,omitempty"`
}
