package index

var (
	bMeta    = []byte("meta")     // slug -> metaBytes
	bIdxDate = []byte("idx_date") // invTime+slug 键序即最新在前
)
