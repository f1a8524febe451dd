package localcontent

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"myblog/internal/domain/content"
	"myblog/internal/index"
)

type Warning struct {
	Path string
	Msg  string
}

// Post 编译完成的本地记录：元数据 + 正文 HTML
type Post struct {
	Meta       content.PostMeta
	BodyHTML   string
	SourcePath string
}

type LoadOptions struct {
	SourceDir     string
	IndexPath     string
	DefaultAuthor string
}

// Provider 只读快照式的本地内容集合，listing 走 bbolt 索引。
// Reload 整体换新快照，读写之间用 RWMutex 隔开。
type Provider struct {
	opt LoadOptions
	idx *index.Store
	md  *markdownCompiler

	mu      sync.RWMutex
	posts   map[string]Post
	authors map[string]content.Author
}

func Open(opt LoadOptions) (*Provider, []Warning, error) {
	if opt.DefaultAuthor == "" {
		opt.DefaultAuthor = "default"
	}
	st, err := index.Open(index.OpenOptions{Path: opt.IndexPath})
	if err != nil {
		return nil, nil, fmt.Errorf("localcontent: open index: %w", err)
	}

	p := &Provider{
		opt:     opt,
		idx:     st,
		md:      newMarkdownCompiler(),
		posts:   make(map[string]Post),
		authors: make(map[string]content.Author),
	}
	warns, err := p.Reload()
	if err != nil {
		_ = st.Close()
		return nil, warns, err
	}
	return p, warns, nil
}

func (p *Provider) Close() error {
	if p.idx == nil {
		return nil
	}
	return p.idx.Close()
}

// Reload 重新编译全部内容并重建索引
func (p *Provider) Reload() ([]Warning, error) {
	posts, warns, err := p.loadPosts(filepath.Join(p.opt.SourceDir, "posts"))
	if err != nil {
		return warns, err
	}
	authors, aWarns, err := p.loadAuthors(filepath.Join(p.opt.SourceDir, "authors"))
	if err != nil {
		return warns, err
	}
	warns = append(warns, aWarns...)

	// 默认作者必须存在，about 回退和作者兜底都依赖它
	if _, ok := authors[p.opt.DefaultAuthor]; !ok {
		return warns, fmt.Errorf("localcontent: default author %q not found under %s",
			p.opt.DefaultAuthor, p.opt.SourceDir)
	}

	metas := make([]content.PostMeta, 0, len(posts))
	bySlug := make(map[string]Post, len(posts))
	for _, post := range posts {
		metas = append(metas, post.Meta)
		bySlug[post.Meta.Slug] = post
	}
	if err := p.idx.Rebuild(metas, index.RebuildOptions{}); err != nil {
		return warns, fmt.Errorf("localcontent: rebuild index: %w", err)
	}

	p.mu.Lock()
	p.posts = bySlug
	p.authors = authors
	p.mu.Unlock()
	return warns, nil
}

// Posts 全量、发布日期倒序
func (p *Provider) Posts() ([]content.PostMeta, error) {
	return p.idx.List(index.ListOptions{})
}

func (p *Provider) PostBySlug(slug string) (Post, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	post, ok := p.posts[strings.TrimSpace(slug)]
	return post, ok
}

func (p *Provider) Author(slug string) (content.Author, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.authors[strings.TrimSpace(strings.ToLower(slug))]
	return a, ok
}

func (p *Provider) DefaultAuthor() content.Author {
	a, _ := p.Author(p.opt.DefaultAuthor)
	return a
}

type sourceFile struct {
	path string
}

func discover(root string) ([]sourceFile, error) {
	var out []sourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
			out = append(out, sourceFile{path: path})
		}
		return nil
	})
	return out, err
}

type loadResult struct {
	post  Post
	warns []Warning
	skip  bool
	err   error
}

func (p *Provider) loadPosts(dir string) ([]Post, []Warning, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan sourceFile)
	results := make(chan loadResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- p.loadOnePost(sf)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var posts []Post
	var warns []Warning
	for r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		posts = append(posts, r.post)
	}

	// slug 冲突只保留先到的一篇
	seen := make(map[string]struct{}, len(posts))
	filtered := make([]Post, 0, len(posts))
	for _, post := range posts {
		if _, ok := seen[post.Meta.Slug]; ok {
			warns = append(warns, Warning{
				Path: post.SourcePath,
				Msg:  "slug 冲突（重复），已跳过: " + post.Meta.Slug,
			})
			continue
		}
		seen[post.Meta.Slug] = struct{}{}
		filtered = append(filtered, post)
	}
	return filtered, warns, nil
}

func (p *Provider) loadOnePost(sf sourceFile) loadResult {
	st, err := os.Stat(sf.path)
	if err != nil {
		return loadResult{err: err}
	}
	raw, err := os.ReadFile(sf.path)
	if err != nil {
		return loadResult{err: err}
	}

	fm, body, fmErr := ParseFrontMatter(raw)
	var warns []Warning
	if fmErr != nil && fmErr != errNoFrontMatter {
		warns = append(warns, Warning{
			Path: sf.path,
			Msg:  "failed to parse front matter: " + fmErr.Error(),
		})
		return loadResult{warns: warns, skip: true}
	}
	if fm.Draft {
		return loadResult{skip: true}
	}

	slug := ResolveSlug(fm.Title, fm.Slug, sf.path)
	if slug == "" {
		warns = append(warns, Warning{Path: sf.path, Msg: "empty slug"})
		return loadResult{warns: warns, skip: true}
	}

	meta := content.PostMeta{
		Title:   fm.Title,
		Slug:    slug,
		Summary: fm.Summary,
		Tags:    fm.Tags,
		Images:  []string(fm.Images),
		Authors: fm.Authors,
		Draft:   fm.Draft,
	}
	meta.Date = ParseTime(fm.Date)
	meta.Lastmod = ParseTime(fm.Lastmod)
	if meta.Date.IsZero() {
		meta.Date = st.ModTime().In(time.Local)
		warns = append(warns, Warning{
			Path: sf.path,
			Msg:  "using file modification time for date",
		})
	}
	if strings.TrimSpace(meta.Title) == "" {
		warns = append(warns, Warning{Path: sf.path, Msg: "title is empty"})
	}
	meta.Normalize()

	bodyHTML, err := p.md.Compile(body)
	if err != nil {
		warns = append(warns, Warning{Path: sf.path, Msg: "markdown compile failed: " + err.Error()})
		return loadResult{warns: warns, skip: true}
	}

	return loadResult{
		post: Post{
			Meta:       meta,
			BodyHTML:   bodyHTML,
			SourcePath: sf.path,
		},
		warns: warns,
	}
}

func (p *Provider) loadAuthors(dir string) (map[string]content.Author, []Warning, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, nil, err
	}

	authors := make(map[string]content.Author, len(files))
	var warns []Warning
	for _, sf := range files {
		raw, err := os.ReadFile(sf.path)
		if err != nil {
			return nil, warns, err
		}
		fm, body, fmErr := ParseAuthorFrontMatter(raw)
		if fmErr != nil && fmErr != errNoFrontMatter {
			warns = append(warns, Warning{
				Path: sf.path,
				Msg:  "failed to parse author front matter: " + fmErr.Error(),
			})
			continue
		}
		slug := ResolveSlug(fm.Name, fm.Slug, sf.path)
		if slug == "" {
			warns = append(warns, Warning{Path: sf.path, Msg: "empty author slug"})
			continue
		}
		if _, ok := authors[slug]; ok {
			warns = append(warns, Warning{Path: sf.path, Msg: "author slug 冲突（重复），已跳过: " + slug})
			continue
		}

		bodyHTML, err := p.md.Compile(body)
		if err != nil {
			warns = append(warns, Warning{Path: sf.path, Msg: "markdown compile failed: " + err.Error()})
			continue
		}
		authors[slug] = content.Author{
			Slug:       slug,
			Name:       fm.Name,
			Avatar:     fm.Avatar,
			Occupation: fm.Occupation,
			Company:    fm.Company,
			Email:      fm.Email,
			Twitter:    fm.Twitter,
			GitHub:     fm.GitHub,
			LinkedIn:   fm.LinkedIn,
			BodyHTML:   bodyHTML,
		}
	}
	return authors, warns, nil
}
