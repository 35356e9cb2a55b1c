package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// idByteLen is the raw entropy per ID; the hex form is twice as long.
const idByteLen = 16

// Generator mints the opaque public identifiers stamped on snapshots and
// leaderboard rows.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator backs Generator with crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, idByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
