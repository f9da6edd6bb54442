package roll

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// RandomSource abstracts the generator behind every roll.
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random: default generation method
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// Read 53 random bits => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}

	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG, used when a seed name is given.
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// SeedFromString hashes a seed name (e.g. "CronoLucca") into a PCG seed so the
// same name always reproduces the same rolls.
func SeedFromString(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}
