package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"mysite/internal/domain/content"
)

// Fingerprint identifies one rendered state of the site. Two snapshots with
// the same RenderHash produce identical pages.
type Fingerprint struct {
	ContentHash string
	ThemeHash   string
	ConfigHash  string
	RenderHash  string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte(f.ConfigHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// HashLibrary hashes the canonical JSON form of lib.
func HashLibrary(lib content.Library) (string, error) {
	data, err := json.Marshal(lib)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Same reports whether f and other render the same site.
func (f Fingerprint) Same(other Fingerprint) bool {
	return f.RenderHash != "" && f.RenderHash == other.RenderHash
}
