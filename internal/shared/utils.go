// Package shared provides small helpers for handling sensitive material
// in memory.
package shared

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// The provisioning pipeline calls it on group keys and their sealed copies
// once they are no longer needed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// WipeAll wipes every slice in bs.
func WipeAll(bs ...[]byte) {
	for _, b := range bs {
		WipeByteArray(b)
	}
}
