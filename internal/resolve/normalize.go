package resolve

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"myblog/internal/domain/content"
	"myblog/internal/microcms"
)

const summaryMax = 160

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

func stripHTML(value string) string {
	value = htmlTagPattern.ReplaceAllString(value, "")
	value = whitespacePattern.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// buildSummary 去标签、压空白，超长按字符数截到 160（含 "..."）。
// 按 rune 计数和切分，不能按字节，否则中日文正文会被切坏。
func buildSummary(rawHTML string) string {
	text := stripHTML(rawHTML)
	if utf8.RuneCountInString(text) <= summaryMax {
		return text
	}
	return string([]rune(text)[:summaryMax-3]) + "..."
}

// parseTags "/" 分隔，逐段 trim，空段丢弃，顺序保留
func parseTags(value string) []string {
	parts := strings.Split(value, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func remoteListItem(e microcms.BlogEntry) content.ListItem {
	created := e.PublishedAt
	if created == "" {
		created = e.CreatedAt
	}
	revised := e.RevisedAt
	if e.OverwrotePublishedAt != "" {
		// 手动回填过发布日期的文章不展示修订时间
		created = e.OverwrotePublishedAt
		revised = ""
	}

	var hero content.HeroImage
	if e.Pic != nil {
		hero.Media = &content.Media{
			URL:    e.Pic.URL,
			Width:  e.Pic.Width,
			Height: e.Pic.Height,
		}
	}

	return content.ListItem{
		Slug:      e.ID,
		Title:     e.Title,
		Summary:   buildSummary(e.MainContent),
		Tags:      parseTags(e.Tags),
		CreatedAt: created,
		RevisedAt: revised,
		Hero:      hero,
	}
}

func remoteDetail(e microcms.BlogEntry) content.Detail {
	return content.Detail{
		ListItem:    remoteListItem(e),
		ContentHTML: e.MainContent,
	}
}

func localListItem(m content.PostMeta) content.ListItem {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}

	var hero content.HeroImage
	if len(m.Images) > 0 {
		hero.Path = m.Images[0]
	}

	item := content.ListItem{
		Slug:      m.Slug,
		Title:     m.Title,
		Summary:   m.Summary, // 本地摘要由编译管线预先写好，不再加工
		Tags:      tags,
		CreatedAt: m.Date.Format(time.RFC3339),
		Hero:      hero,
	}
	if !m.Lastmod.IsZero() && !m.Lastmod.Equal(m.Date) {
		item.RevisedAt = m.Lastmod.Format(time.RFC3339)
	}
	return item
}

// TagCounts 对已归一化的列表做标签直方图
func TagCounts(posts []content.ListItem) map[string]int {
	counts := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Tags {
			counts[tag]++
		}
	}
	return counts
}
