package images

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// Checksum generates a deterministic checksum for an image to verify that
// operators leave their input untouched.
//
// Arguments:
// - img: The image to compute checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string.
//
// Example:
//
// ```go
//
//	before := Checksum(img)
//	_ = manip.Apply(img, manip.Negate())
//	fmt.Println(before == Checksum(img)) // true
//
// ```
func Checksum(img Image) string {
	if img == nil {
		return "empty"
	}

	hash := md5.New()
	w, h := img.Size()
	var hdr [16]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(img.Kind()))
	binary.BigEndian.PutUint32(hdr[4:], uint32(w))
	binary.BigEndian.PutUint32(hdr[8:], uint32(h))
	binary.BigEndian.PutUint32(hdr[12:], uint32(img.MaxValue()))
	hash.Write(hdr[:])

	var buf [2]byte
	for _, plane := range img.Planes() {
		for _, s := range plane {
			binary.BigEndian.PutUint16(buf[:], s)
			hash.Write(buf[:])
		}
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// Equal reports whether a and b hold the same logical content: same kind,
// same dimensions, and every sample pair representing the same fraction of
// its maxval. Images that differ only in maxval scaling compare equal.
func Equal(a, b Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	aw, ah := a.Size()
	bw, bh := b.Size()
	if aw != bw || ah != bh {
		return false
	}
	am, bm := uint64(a.MaxValue()), uint64(b.MaxValue())
	ap, bp := a.Planes(), b.Planes()
	for c := range ap {
		if len(ap[c]) != len(bp[c]) {
			return false
		}
		for i := range ap[c] {
			if uint64(ap[c][i])*bm != uint64(bp[c][i])*am {
				return false
			}
		}
	}
	return true
}
