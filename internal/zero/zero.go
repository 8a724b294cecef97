// Package zero overwrites secret material once it is no longer needed.
//
// Go gives no guarantee that the garbage collector will not copy or retain
// freed memory, so this is best effort only.
package zero

import "github.com/brave-experiments/boomerang/pkg/math/curve"

// Scalar sets s to zero in place.
func Scalar(s curve.Scalar) {
	if s != nil {
		s.SetUInt64(0)
	}
}

// Scalars sets every scalar to zero in place.
func Scalars(ss ...curve.Scalar) {
	for _, s := range ss {
		Scalar(s)
	}
}

// Vec sets every element of the slice to zero in place.
func Vec(ss []curve.Scalar) {
	for _, s := range ss {
		Scalar(s)
	}
}

// Bytes overwrites the buffer with zeros.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
