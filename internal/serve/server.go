package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"myblog/internal/domain/config"
	"myblog/internal/localcontent"
	"myblog/internal/microcms"
	"myblog/internal/resolve"
)

// Server 把内容解析层以 JSON 形式暴露给外部前端。
// 页面渲染不在这层，消费方只依赖归一化后的形态。
type Server struct {
	cfg      config.Config
	log      *logrus.Logger
	local    *localcontent.Provider
	resolver *resolve.Resolver

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log *logrus.Logger) (*Server, error) {
	if log == nil {
		log = logrus.New()
	}

	local, warns, err := localcontent.Open(localcontent.LoadOptions{
		SourceDir:     cfg.Content.SourceDir,
		IndexPath:     cfg.Content.IndexPath,
		DefaultAuthor: cfg.Content.DefaultAuthor,
	})
	if err != nil {
		return nil, err
	}
	logWarnings(log, warns)

	cms := microcms.New(cfg.MicroCMS)
	if cms.Enabled() {
		log.WithField("service_domain", cfg.MicroCMS.ServiceDomain).
			Info("microcms source enabled")
	} else {
		log.Info("microcms source disabled, serving local content only")
	}

	return &Server{
		cfg:      cfg,
		log:      log,
		local:    local,
		resolver: resolve.New(cms, local, log),
	}, nil
}

func logWarnings(log *logrus.Logger, warns []localcontent.Warning) {
	for _, w := range warns {
		log.WithField("path", w.Path).Warn(w.Msg)
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.local != nil {
		return s.local.Close()
	}
	return nil
}

// Resolver 供测试和嵌入方直接拿到解析层
func (s *Server) Resolver() *resolve.Resolver {
	return s.resolver
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/posts", s.handlePosts)
	mux.HandleFunc("/api/posts/", s.handlePost)
	mux.HandleFunc("/api/tags", s.handleTags)
	mux.HandleFunc("/api/tags/", s.handleTag)
	mux.HandleFunc("/api/about", s.handleAbout)
	mux.HandleFunc("/api/draft", s.handleDraft)
	mux.HandleFunc("/healthz", s.handleHealth)

	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.WithField("addr", addr).Info("listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.Walk(s.cfg.Content.SourceDir, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				if os.IsNotExist(walkErr) {
					return nil
				}
				return walkErr
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching content for changes")
	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Warn("watcher error")
		case <-debounce.C:
			debounce.Stop()
			warns, err := s.local.Reload()
			logWarnings(s.log, warns)
			if err != nil {
				s.log.WithError(err).Error("local content reload failed")
				continue
			}
			s.log.Info("local content reloaded")
		}
	}
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	sess := s.resolver.NewSession()
	writeJSON(w, http.StatusOK, sess.AllPosts(r.Context()))
}

// 文章详情：/api/posts/{slug}
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/posts/"), "/")
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	sess := s.resolver.NewSession()
	result, err := sess.PostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, resolve.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		// 可回退的解析函数不应该让失败漏到这里
		s.log.WithError(err).WithField("slug", slug).Error("post resolution failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	sess := s.resolver.NewSession()
	writeJSON(w, http.StatusOK, resolve.TagCounts(sess.AllPosts(r.Context())))
}

// 按标签过滤：/api/tags/{tag}
func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/tags/"), "/")
	if tag == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	sess := s.resolver.NewSession()
	all := sess.AllPosts(r.Context())
	filtered := all[:0:0]
	for _, post := range all {
		for _, t := range post.Tags {
			if t == tag {
				filtered = append(filtered, post)
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	sess := s.resolver.NewSession()
	writeJSON(w, http.StatusOK, sess.About(r.Context()))
}

// 草稿预览：/api/draft?id=...&draftKey=...
// 没有回退路径，拉不到就是 "preview unavailable"
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	draftKey := r.URL.Query().Get("draftKey")
	if id == "" || draftKey == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter")
		return
	}

	sess := s.resolver.NewSession()
	result, err := sess.DraftPost(r.Context(), id, draftKey)
	if err != nil {
		writeError(w, http.StatusNotFound, "preview unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
