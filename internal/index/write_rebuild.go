package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"myblog/internal/domain/content"
)

type RebuildOptions struct {
	IncludeDraft bool
}

// Rebuild 全量重建：内容集合小，增量维护不值得
func (s *Store) Rebuild(metas []content.PostMeta, opt RebuildOptions) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bMeta)
		_ = tx.DeleteBucket(bIdxDate)

		metaB, err := tx.CreateBucket(bMeta)
		if err != nil {
			return err
		}
		idxDateB, err := tx.CreateBucket(bIdxDate)
		if err != nil {
			return err
		}

		for _, m := range metas {
			if m.Draft && !opt.IncludeDraft {
				continue
			}
			if strings.TrimSpace(m.Slug) == "" {
				continue
			}
			mb, err := json.Marshal(m)
			if err != nil {
				return err
			}
			if err := metaB.Put([]byte(m.Slug), mb); err != nil {
				return err
			}

			dKey := makeDateSlugKey(m.Date.UnixNano(), m.Slug)
			if err := idxDateB.Put(dKey, []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
}
