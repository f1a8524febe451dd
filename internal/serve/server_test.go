package serve

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/domain/config"
	"myblog/internal/domain/content"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "posts", "hello.md"), `---
title: Hello World
date: 2024-03-04
summary: A local summary
tags:
  - go
---
Body **here**.`)

	writeFile(t, filepath.Join(dir, "posts", "older.md"), `---
title: Older Post
date: 2024-01-02
tags:
  - go
  - web
---
Older body.`)

	writeFile(t, filepath.Join(dir, "authors", "default.md"), `---
name: Default Author
slug: default
---
About the default author.`)

	cfg := config.Default()
	cfg.Content.SourceDir = dir
	cfg.Content.IndexPath = filepath.Join(t.TempDir(), "index.db")

	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestPostsEndpoint(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/posts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var items []content.ListItem
	decode(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "hello-world", items[0].Slug)
	assert.Equal(t, "older-post", items[1].Slug)
}

func TestPostDetailEndpoint(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/posts/hello-world")
	require.Equal(t, http.StatusOK, rec.Code)

	var result content.PostResult
	decode(t, rec, &result)
	assert.Equal(t, content.SourceLocal, result.Source)
	assert.Contains(t, result.Post.ContentHTML, "<strong>here</strong>")
	require.Len(t, result.Authors, 1)
	assert.Equal(t, "Default Author", result.Authors[0].Name)
}

func TestPostDetailNotFound(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/posts/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "not found", body["error"])

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/posts/").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/posts/a/b").Code)
}

func TestTagsEndpoint(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/tags")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int
	decode(t, rec, &counts)
	assert.Equal(t, map[string]int{"go": 2, "web": 1}, counts)
}

func TestTagFilterEndpoint(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/tags/web")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []content.ListItem
	decode(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "older-post", items[0].Slug)

	rec = get(t, h, "/api/tags/unknown")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &items)
	assert.Empty(t, items)
}

func TestAboutEndpoint(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/about")
	require.Equal(t, http.StatusOK, rec.Code)

	var result content.AboutResult
	decode(t, rec, &result)
	assert.Equal(t, content.SourceLocal, result.Source)
	require.NotNil(t, result.Author)
	assert.Equal(t, "Default Author", result.Author.Name)
}

func TestDraftEndpoint(t *testing.T) {
	h := newServer(t).Handler()

	rec := get(t, h, "/api/draft?id=x")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "missing query parameter", body["error"])

	// 远端未启用时预览必然失败，这里没有本地兜底
	rec = get(t, h, "/api/draft?id=x&draftKey=y")
	require.Equal(t, http.StatusNotFound, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, "preview unavailable", body["error"])
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, newServer(t).Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
