package index

import (
	"bytes"
	"encoding/binary"
)

// key = invTime(8) + 0x00 + slug
// 时间取反后 bbolt 的字典序游标天然就是时间倒序
func makeDateSlugKey(unixNano int64, slug string) []byte {
	buf := make([]byte, 0, 8+1+len(slug))

	tmp := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp, ^uint64(unixNano))
	buf = append(buf, tmp...)

	buf = append(buf, 0x00)
	buf = append(buf, []byte(slug)...)
	return buf
}

func slugFromDateSlugKey(k []byte) string {
	if len(k) < 8+2 {
		return ""
	}
	i := bytes.IndexByte(k[8:], 0x00)
	if i < 0 {
		return ""
	}
	pos := 8 + i
	if pos+1 >= len(k) {
		return ""
	}
	return string(k[pos+1:])
}
