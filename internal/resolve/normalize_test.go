package resolve

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/domain/content"
	"myblog/internal/microcms"
)

func TestBuildSummary(t *testing.T) {
	long := "<p>Hello <b>World</b></p>" + strings.Repeat("x", 200)
	got := buildSummary(long)
	assert.LessOrEqual(t, len(got), 160)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")

	assert.Equal(t, "Hello World", buildSummary("<p>Hello   <b>World</b>\n</p>"))
	assert.Equal(t, "", buildSummary(""))
	assert.Equal(t, "", buildSummary("<p></p>"))
}

func TestBuildSummaryMultibyte(t *testing.T) {
	// 60 个汉字是 180 字节，但只有 60 个字符，不该被截断
	short := strings.Repeat("あ", 60)
	assert.Equal(t, short, buildSummary("<p>"+short+"</p>"))

	got := buildSummary(strings.Repeat("あ", 200))
	assert.True(t, utf8.ValidString(got), "truncation must not land mid-rune")
	assert.Equal(t, 160, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("あ", 157)+"...", got)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, parseTags("a / b/ c "))
	assert.Equal(t, []string{}, parseTags(""))
	assert.Equal(t, []string{"solo"}, parseTags("solo"))
	assert.Equal(t, []string{"a", "b"}, parseTags("/a//b/"))
}

func TestRemoteListItem(t *testing.T) {
	entry := microcms.BlogEntry{
		ID:          "my-post",
		Title:       "My Post",
		Tags:        "go / testing",
		MainContent: "<p>The body</p>",
		Pic:         &microcms.Media{URL: "https://img.example/pic.png", Width: 800, Height: 600},
		PublishedAt: "2024-03-04T00:00:00Z",
		RevisedAt:   "2024-03-10T00:00:00Z",
		CreatedAt:   "2024-03-01T00:00:00Z",
	}

	item := remoteListItem(entry)
	assert.Equal(t, "my-post", item.Slug)
	assert.Equal(t, "The body", item.Summary)
	assert.Equal(t, []string{"go", "testing"}, item.Tags)
	assert.Equal(t, "2024-03-04T00:00:00Z", item.CreatedAt)
	assert.Equal(t, "2024-03-10T00:00:00Z", item.RevisedAt)
	require.NotNil(t, item.Hero.Media)
	assert.Equal(t, "https://img.example/pic.png", item.Hero.Media.URL)
}

func TestRemoteListItemOverrideSuppressesRevised(t *testing.T) {
	entry := microcms.BlogEntry{
		ID:                   "backdated",
		Title:                "Backdated",
		PublishedAt:          "2024-03-04T00:00:00Z",
		RevisedAt:            "2024-03-10T00:00:00Z",
		UpdatedAt:            "2024-03-11T00:00:00Z",
		CreatedAt:            "2024-03-01T00:00:00Z",
		OverwrotePublishedAt: "2020-01-01T00:00:00Z",
	}

	item := remoteListItem(entry)
	assert.Equal(t, "2020-01-01T00:00:00Z", item.CreatedAt)
	assert.Empty(t, item.RevisedAt, "manual backdating must hide the revision date")
}

func TestRemoteListItemCreatedFallback(t *testing.T) {
	entry := microcms.BlogEntry{ID: "x", CreatedAt: "2024-02-02T00:00:00Z"}
	item := remoteListItem(entry)
	assert.Equal(t, "2024-02-02T00:00:00Z", item.CreatedAt)
	assert.True(t, item.Hero.IsZero())
	assert.Equal(t, []string{}, item.Tags)
	assert.Equal(t, "", item.Summary)
}

func TestRemoteDetail(t *testing.T) {
	entry := microcms.BlogEntry{ID: "d", MainContent: "<h2>raw</h2>", CreatedAt: "2024-01-01T00:00:00Z"}
	d := remoteDetail(entry)
	assert.Equal(t, "<h2>raw</h2>", d.ContentHTML)
	assert.Equal(t, "raw", d.Summary)
}

func TestLocalListItem(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	m := content.PostMeta{
		Slug:    "local-post",
		Title:   "Local Post",
		Date:    date,
		Lastmod: date.AddDate(0, 0, 6),
		Summary: "authored summary",
		Tags:    []string{"go"},
		Images:  []string{"/img/a.png", "/img/b.png"},
	}

	item := localListItem(m)
	assert.Equal(t, "authored summary", item.Summary)
	assert.Equal(t, "/img/a.png", item.Hero.Path)
	assert.Nil(t, item.Hero.Media)
	assert.Equal(t, date.Format(time.RFC3339), item.CreatedAt)
	assert.Equal(t, date.AddDate(0, 0, 6).Format(time.RFC3339), item.RevisedAt)
}

func TestLocalListItemNoRevision(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	item := localListItem(content.PostMeta{Slug: "a", Date: date, Lastmod: date})
	assert.Empty(t, item.RevisedAt)

	item = localListItem(content.PostMeta{Slug: "b", Date: date})
	assert.Empty(t, item.RevisedAt)
	assert.Equal(t, []string{}, item.Tags)
	assert.True(t, item.Hero.IsZero())
}

func TestTagCounts(t *testing.T) {
	posts := []content.ListItem{
		{Slug: "a", Tags: []string{"go", "web"}},
		{Slug: "b", Tags: []string{"go"}},
		{Slug: "c", Tags: []string{}},
	}
	counts := TagCounts(posts)
	assert.Equal(t, map[string]int{"go": 2, "web": 1}, counts)
}
