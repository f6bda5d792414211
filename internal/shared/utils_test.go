package shared

import "testing"

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestWipeAll_ZerosEverySlice(t *testing.T) {
	a := []byte("group-key")
	b := []byte("private-key")
	WipeAll(a, nil, b)

	for _, buf := range [][]byte{a, b} {
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("expected zero at %d, got %d", i, v)
			}
		}
	}
}
