package localcontent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	raw := []byte(`---
title: Hello World
slug: hello
date: 2024-03-04
summary: A short teaser
tags:
  - go
  - web
authors:
  - default
---
Body text here.`)

	fm, body, err := ParseFrontMatter(raw)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", fm.Title)
	assert.Equal(t, "hello", fm.Slug)
	assert.Equal(t, "A short teaser", fm.Summary)
	assert.Equal(t, []string{"go", "web"}, fm.Tags)
	assert.Equal(t, []string{"default"}, fm.Authors)
	assert.Equal(t, "Body text here.", string(body))
}

func TestParseFrontMatterMissing(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("just a body"))
	assert.ErrorIs(t, err, errNoFrontMatter)
}

func TestParseFrontMatterNoBody(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("---\ntitle: Only Meta\n---"))
	require.NoError(t, err)
	assert.Equal(t, "Only Meta", fm.Title)
	assert.Empty(t, body)
}

func TestImagesScalarOrSequence(t *testing.T) {
	fm, _, err := ParseFrontMatter([]byte("---\nimages: /img/one.png\n---\nx"))
	require.NoError(t, err)
	assert.Equal(t, StringList{"/img/one.png"}, fm.Images)

	fm, _, err = ParseFrontMatter([]byte("---\nimages:\n  - /img/one.png\n  - /img/two.png\n---\nx"))
	require.NoError(t, err)
	assert.Equal(t, StringList{"/img/one.png", "/img/two.png"}, fm.Images)

	fm, _, err = ParseFrontMatter([]byte("---\ntitle: t\n---\nx"))
	require.NoError(t, err)
	assert.Nil(t, fm.Images)
}

func TestResolveSlug(t *testing.T) {
	assert.Equal(t, "explicit", ResolveSlug("Title", "Explicit", "path/ignored.md"))
	assert.Equal(t, "hello-world", ResolveSlug("Hello, World!", "", "path/ignored.md"))
	assert.Equal(t, "from-file", ResolveSlug("", "", "path/From File.md"))
}

func TestParseTime(t *testing.T) {
	got := ParseTime("2024-03-04")
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local), got)
	assert.True(t, ParseTime("").IsZero())
	assert.True(t, ParseTime("not a date").IsZero())
}
