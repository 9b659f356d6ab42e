// Package fingerprint supplies the device identifier stored in every
// record's user block.
package fingerprint

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Provider derives a device identifier from a seed. ok is false when the
// host cannot produce one; callers then store an empty id.
type Provider interface {
	DeviceID(seed string) (id string, ok bool)
}

// Func adapts a function to Provider.
type Func func(seed string) (string, bool)

func (f Func) DeviceID(seed string) (string, bool) { return f(seed) }

// Static always returns the same id. An empty id means unsupported.
type Static string

func (s Static) DeviceID(string) (string, bool) {
	return string(s), s != ""
}

// Digest fingerprints an opaque rendering surface, for example the encoded
// bytes of a canvas the page drew the seed into. The id is the hex form of
// the first four bytes of a BLAKE3 hash over seed and surface.
type Digest struct {
	Surface []byte
}

func (d Digest) DeviceID(seed string) (string, bool) {
	if seed == "" || len(d.Surface) == 0 {
		return "", false
	}
	h := blake3.New()
	h.Write([]byte(seed))
	h.Write([]byte{0})
	h.Write(d.Surface)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:4]), true
}

// Resolve asks p for an id, tolerating a nil provider.
func Resolve(p Provider, seed string) string {
	if p == nil {
		return ""
	}
	id, ok := p.DeviceID(seed)
	if !ok {
		return ""
	}
	return id
}
