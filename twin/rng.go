package twin

import (
	"hash/fnv"
	"math/rand"
)

// DeriveSeed deterministically derives a per-device seed from a master seed
// and the device ID: deviceSeed = masterSeed XOR fnv64a(deviceID).
// Hash-based derivation keeps fleet streams independent of generation
// order, so seeding devices concurrently stays reproducible.
func DeriveSeed(masterSeed int64, deviceID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(deviceID))
	return masterSeed ^ int64(h.Sum64())
}

// NewRNG returns a fresh random stream for one device under a master seed.
func NewRNG(masterSeed int64, deviceID string) *rand.Rand {
	return rand.New(rand.NewSource(DeriveSeed(masterSeed, deviceID)))
}
