// Package party identifies the two participants of a protocol execution.
package party

import (
	"encoding/binary"
	"io"
	"sort"
)

// ID uniquely identifies a participant.
type ID string

// WriteTo implements io.WriterTo interface.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ID) Domain() string {
	return "ID"
}

// IDSlice is a sorted slice of IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of the given IDs.
func NewIDSlice(ids []ID) IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid returns true if the slice is sorted and contains no duplicates or
// empty IDs.
func (ids IDSlice) Valid() bool {
	for i, id := range ids {
		if id == "" {
			return false
		}
		if i > 0 && ids[i-1] >= id {
			return false
		}
	}
	return true
}

// Contains returns true if id is present.
func (ids IDSlice) Contains(id ID) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}

// Remove returns a copy of the slice without id.
func (ids IDSlice) Remove(id ID) IDSlice {
	out := make(IDSlice, 0, len(ids))
	for _, other := range ids {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

// WriteTo implements io.WriterTo interface.
func (ids IDSlice) WriteTo(w io.Writer) (int64, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(ids)))
	n, err := w.Write(buf[:])
	nAll := int64(n)
	if err != nil {
		return nAll, err
	}
	for _, id := range ids {
		n64, err := id.WriteTo(w)
		nAll += n64
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain.
func (IDSlice) Domain() string {
	return "IDSlice"
}
