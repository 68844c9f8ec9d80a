package index

import (
	"encoding/binary"
	"math"
	"time"
)

// key = order(4) + position(4) + 0x00 + slug so a cursor walks services in the
// order the API returned them, with the explicit order field first.
func makeServiceKey(order, position int, slug string) []byte {
	buf := make([]byte, 8, 8+1+len(slug))
	binary.BigEndian.PutUint32(buf[0:4], clampU32(order))
	binary.BigEndian.PutUint32(buf[4:8], clampU32(position))
	buf = append(buf, 0x00)
	return append(buf, slug...)
}

// key = invTime(8) + 0x00 + slug, newest first
func makeTimeSlugKey(t time.Time, slug string) []byte {
	var unixNano int64
	if !t.IsZero() {
		unixNano = t.UnixNano()
	}
	buf := make([]byte, 8, 8+1+len(slug))
	binary.BigEndian.PutUint64(buf, ^uint64(unixNano))
	buf = append(buf, 0x00)
	return append(buf, slug...)
}

func slugFromKey(k []byte, prefix int) string {
	if len(k) < prefix+2 || k[prefix] != 0x00 {
		return ""
	}
	return string(k[prefix+1:])
}

func clampU32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return uint32(v)
}
