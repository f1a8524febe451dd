package localcontent

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

// StringList front matter 里 images 允许写成单个标量或序列
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		if strings.TrimSpace(one) == "" {
			*s = nil
			return nil
		}
		*s = StringList{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*s = StringList(many)
		return nil
	default:
		return fmt.Errorf("expected scalar or sequence, got yaml kind %d", value.Kind)
	}
}

type FrontMatter struct {
	Title   string `yaml:"title"`
	Slug    string `yaml:"slug"`
	Date    string `yaml:"date"`
	Lastmod string `yaml:"lastmod"`

	// 本地摘要是作者预先写好的，不再二次加工
	Summary string     `yaml:"summary"`
	Tags    []string   `yaml:"tags"`
	Images  StringList `yaml:"images"`
	Draft   bool       `yaml:"draft"`

	Authors []string `yaml:"authors"`
}

type AuthorFrontMatter struct {
	Name       string `yaml:"name"`
	Slug       string `yaml:"slug"`
	Avatar     string `yaml:"avatar"`
	Occupation string `yaml:"occupation"`
	Company    string `yaml:"company"`
	Email      string `yaml:"email"`
	Twitter    string `yaml:"twitter"`
	GitHub     string `yaml:"github"`
	LinkedIn   string `yaml:"linkedin"`
}

// splitFrontMatter 把 "---" 包起来的 yaml 头和正文分开
func splitFrontMatter(raw []byte) (yamlPart, bodyPart []byte, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, raw, errNoFrontMatter
	}

	// 统一换行符
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return nil, raw, errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	// 常见情况：中间有 "\n---\n"
	if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
		yamlPart = parts[0]
		bodyPart = parts[1]
	} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
		// 结尾是 "\n---" 且无正文
		yamlPart = rest[:len(rest)-len("\n"+sep)]
	} else if bytes.Equal(bytes.TrimSpace(rest), []byte(sep)) {
		// "---\n---"：空 front matter，无正文
	} else {
		return nil, raw, errInvalidFrontMatter
	}

	return bytes.TrimSpace(yamlPart), bytes.TrimSpace(bodyPart), nil
}

func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	yamlPart, body, err := splitFrontMatter(raw)
	if err != nil {
		return FrontMatter{}, body, err
	}
	var fm FrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return FrontMatter{}, body, err
		}
	}
	return fm, body, nil
}

func ParseAuthorFrontMatter(raw []byte) (AuthorFrontMatter, []byte, error) {
	yamlPart, body, err := splitFrontMatter(raw)
	if err != nil {
		return AuthorFrontMatter{}, body, err
	}
	var fm AuthorFrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return AuthorFrontMatter{}, body, err
		}
	}
	return fm, body, nil
}

func ResolveSlug(title, explicit, path string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return slugify(s)
	}
	if t := strings.TrimSpace(title); t != "" {
		return slugify(t)
	}
	base := filepath.Base(path)
	return slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}

func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if 'A' <= r && r <= 'Z' {
				r = r + ('a' - 'A')
			}
			out = append(out, r)
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
