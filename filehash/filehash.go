// Package filehash computes a stable 64-bit signature for a source file
// path. cmd/nanologgen records it per site in the manifest sidecar as
// a defensive signature of the file each site came from; the real
// uniqueness check lives in the registry's (file, line) table. Package
// registry does not call it: the emitters it generates are keyed by
// site_id alone and carry no file hash.
package filehash

const (
	offsetBasis uint64 = 0xcbf29ce484222325
	prime       uint64 = 0x100000001b3
)

// Hash computes the FNV-1a/64 digest of path's UTF-8 bytes.
//
// It is a pure function of its input: the same path always produces
// the same hash, on any platform, in any process, so a value computed
// once at build time stays valid for any later reader.
func Hash(path string) uint64 {
	h := offsetBasis
	for i := 0; i < len(path); i++ {
		h ^= uint64(path[i])
		h *= prime
	}
	return h
}
