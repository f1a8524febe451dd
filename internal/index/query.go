package index

import (
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"

	"myblog/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

type ListOptions struct {
	// Limit <= 0 表示全量
	Limit int
}

func (s *Store) GetMeta(slug string) (content.PostMeta, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.PostMeta{}, ErrNotFound
	}
	var m content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}

// List 按发布日期倒序
func (s *Store) List(opt ListOptions) ([]content.PostMeta, error) {
	var out []content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxDate)
		metaB := tx.Bucket(bMeta)
		if idx == nil || metaB == nil {
			return nil
		}

		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromDateSlugKey(k)
			if slug == "" {
				continue
			}
			v := metaB.Get([]byte(slug))
			if v == nil {
				continue
			}

			var m content.PostMeta
			if err := json.Unmarshal(v, &m); err != nil {
				continue
			}
			out = append(out, m)
			if opt.Limit > 0 && len(out) >= opt.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}
