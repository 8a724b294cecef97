// Package tagstore persists the double-spend tags a server has seen. The
// store is the only mutable state shared between concurrent sessions, so
// inserts are atomic: the first session to present a tag wins, and any later
// session presenting the same tag is a double spend.
package tagstore

import (
	"errors"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// ErrDoubleSpend is returned when a tag is presented a second time.
var ErrDoubleSpend = errors.New("tagstore: tag already spent")

// Entry records one presented tag together with the nonce that produced it.
type Entry struct {
	Tag   curve.Scalar
	Nonce curve.Scalar
}

// Store is an in-memory insert-if-absent map over tags.
type Store struct {
	group curve.Curve

	mtx     sync.Mutex
	entries map[string]Entry
}

func New(group curve.Curve) *Store {
	return &Store{
		group:   group,
		entries: make(map[string]Entry),
	}
}

func key(tag curve.Scalar) (string, error) {
	data, err := tag.MarshalBinary()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Insert stores the tag with its nonce. It returns ErrDoubleSpend if the
// tag was already present; the store is unchanged in that case.
func (s *Store) Insert(tag, nonce curve.Scalar) error {
	k, err := key(tag)
	if err != nil {
		return err
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.entries[k]; ok {
		return ErrDoubleSpend
	}
	s.entries[k] = Entry{
		Tag:   s.group.NewScalar().Set(tag),
		Nonce: s.group.NewScalar().Set(nonce),
	}
	return nil
}

// Contains reports whether the tag has been presented before.
func (s *Store) Contains(tag curve.Scalar) bool {
	k, err := key(tag)
	if err != nil {
		return false
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	_, ok := s.entries[k]
	return ok
}

// Entries returns a snapshot of the stored entries, in no particular order.
func (s *Store) Entries() []Entry {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	return entries
}

// Len returns the number of stored tags.
func (s *Store) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.entries)
}

type storedEntry struct {
	Tag   []byte `cbor:"1,keyasint"`
	Nonce []byte `cbor:"2,keyasint"`
}

// MarshalBinary serializes all entries.
func (s *Store) MarshalBinary() ([]byte, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	stored := make([]storedEntry, 0, len(s.entries))
	for _, e := range s.entries {
		tag, err := e.Tag.MarshalBinary()
		if err != nil {
			return nil, err
		}
		nonce, err := e.Nonce.MarshalBinary()
		if err != nil {
			return nil, err
		}
		stored = append(stored, storedEntry{Tag: tag, Nonce: nonce})
	}
	return cbor.Marshal(stored)
}

// Load restores a store from its serialized form.
func Load(group curve.Curve, data []byte) (*Store, error) {
	var stored []storedEntry
	if err := cbor.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	s := New(group)
	for _, e := range stored {
		tag := group.NewScalar()
		if err := tag.UnmarshalBinary(e.Tag); err != nil {
			return nil, err
		}
		nonce := group.NewScalar()
		if err := nonce.UnmarshalBinary(e.Nonce); err != nil {
			return nil, err
		}
		if err := s.Insert(tag, nonce); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ErrSameNonce is returned when identification is attempted with two
// entries under the same nonce.
var ErrSameNonce = errors.New("tagstore: entries share a nonce")

// Identify recovers the serial number and signing key behind two tags of
// the same token seen under different nonces. Insert stops exact replays;
// a token reused under fresh nonces satisfies tagᵢ = id⋅nonceᵢ + key, and
// two such equations deanonymize the cheater.
func Identify(group curve.Curve, a, b Entry) (id, key curve.Scalar, err error) {
	dn := group.NewScalar().Set(a.Nonce).Sub(b.Nonce)
	if dn.IsZero() {
		return nil, nil, ErrSameNonce
	}
	id = group.NewScalar().Set(a.Tag).Sub(b.Tag).Mul(dn.Invert())
	key = group.NewScalar().Set(a.Tag).Sub(group.NewScalar().Set(id).Mul(a.Nonce))
	return id, key, nil
}
