package combiner

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash fingerprints the collected attributes together with the options
// that shape the generated images.
func Hash(attrs []MaterialAttributes, opts Options) string {
	h := sha256.New()
	var buf [8]byte

	writeBool := func(b bool) {
		if b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}

	writeBool(opts.IncludeMetallic)
	writeBool(opts.IncludeRoughness)
	writeBool(opts.IncludeEmission)
	binary.LittleEndian.PutUint64(buf[:], uint64(len(attrs)))
	h.Write(buf[:])

	for _, a := range attrs {
		for _, v := range a.BaseColor.Array() {
			writeFloat(v)
		}
		writeFloat(a.Metallic)
		writeFloat(a.Roughness)
		for _, v := range a.Emission.Array() {
			writeFloat(v)
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
