package test

import (
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/brave-experiments/boomerang/pkg/party"
)

// PartyIDs returns a deterministic set of n party IDs.
func PartyIDs(n int) party.IDSlice {
	baseString := ""
	ids := make([]party.ID, n)
	for i := range ids {
		if i%26 == 0 && i > 0 {
			baseString += "a"
		}
		ids[i] = party.ID(baseString + string('a'+rune(i%26)))
	}
	return party.NewIDSlice(ids)
}

// Rand returns a deterministic stream of random bytes expanded from the
// seed, for reproducible protocol runs.
func Rand(seed []byte) io.Reader {
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte("boomerang-test-rng"))
	_, _ = shake.Write(seed)
	return shake
}

// Seed is the fixed scenario seed 0x01..0x20.
func Seed() []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}
