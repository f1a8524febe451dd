package config

import (
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domainerr "myblog/internal/domain/errors"
)

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	MicroCMS MicroCMSConfig `yaml:"microcms"`
	Serve    ServeConfig    `yaml:"serve"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type ContentConfig struct {
	SourceDir     string `yaml:"source_dir"`
	IndexPath     string `yaml:"index_path"`
	DefaultAuthor string `yaml:"default_author"`
}

// MicroCMSConfig 远端内容源的开关：domain 和 key 都在才算启用。
// 两者缺任一是正常的部署形态（纯本地站点），不是错误。
type MicroCMSConfig struct {
	ServiceDomain string `yaml:"service_domain"`
	APIKey        string `yaml:"api_key"`
	BlogEndpoint  string `yaml:"blog_endpoint"`
	AboutEndpoint string `yaml:"about_endpoint"`
}

func (c MicroCMSConfig) Enabled() bool {
	return strings.TrimSpace(c.ServiceDomain) != "" && strings.TrimSpace(c.APIKey) != ""
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "myblog",
			Language: "en",
		},
		Content: ContentConfig{
			SourceDir:     "content",
			IndexPath:     ".myblog/index.db",
			DefaultAuthor: "default",
		},
		MicroCMS: MicroCMSConfig{
			BlogEndpoint:  "blog",
			AboutEndpoint: "about",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if s := strings.TrimSpace(c.Site.SiteURL); s != "" && !isValidAbsURL(s) {
		ve.Addf("site.site_url", "%q is not a valid absolute URL", s)
	}

	if strings.TrimSpace(c.Content.SourceDir) == "" {
		ve.Add("content.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Content.IndexPath) == "" {
		ve.Add("content.index_path", "must not be empty")
	}
	if strings.TrimSpace(c.Content.DefaultAuthor) == "" {
		ve.Add("content.default_author", "must not be empty")
	}

	if strings.TrimSpace(c.MicroCMS.BlogEndpoint) == "" {
		ve.Add("microcms.blog_endpoint", "must not be empty")
	}
	if strings.TrimSpace(c.MicroCMS.AboutEndpoint) == "" {
		ve.Add("microcms.about_endpoint", "must not be empty")
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// applyEnv 环境变量优先于文件里的 microcms 配置
func applyEnv(cfg *Config) {
	if v := os.Getenv("MICROCMS_SERVICE_DOMAIN"); v != "" {
		cfg.MicroCMS.ServiceDomain = v
	}
	if v := os.Getenv("MICROCMS_API_KEY"); v != "" {
		cfg.MicroCMS.APIKey = v
	}
	if v := os.Getenv("MICROCMS_BLOG_ENDPOINT"); v != "" {
		cfg.MicroCMS.BlogEndpoint = v
	}
	if v := os.Getenv("MICROCMS_ABOUT_ENDPOINT"); v != "" {
		cfg.MicroCMS.AboutEndpoint = v
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 直接 Unmarshal 到 cfg 上：文件里写到的字段覆盖默认值，其他保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			if err := cfg.Validate(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
