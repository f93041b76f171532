// Package testutil provides testing utilities for the follows service.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"
)

// Fake provides generators for fake test data.
var Fake = &fakeGenerator{}

type fakeGenerator struct {
	counter atomic.Int64
}

// String generates a random string with the given prefix.
func (f *fakeGenerator) String(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, f.counter.Add(1), f.randomHex(4))
}

// Handle generates a valid, normalized handle under example.com.
func (f *fakeGenerator) Handle() string {
	return fmt.Sprintf("user%d-%s.example.com", f.counter.Add(1), f.randomHex(3))
}

// DID generates a syntactically valid did:plc identifier.
func (f *fakeGenerator) DID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz234567"
	b := make([]byte, 24)
	for i := range b {
		b[i] = alphabet[f.randomInt(0, len(alphabet))]
	}
	return "did:plc:" + string(b)
}

// DisplayName generates a fake display name.
func (f *fakeGenerator) DisplayName() string {
	firstNames := []string{"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry"}
	lastNames := []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	return fmt.Sprintf("%s %s", f.randomChoice(firstNames), f.randomChoice(lastNames))
}

// AccessJwt generates an opaque fake access token.
func (f *fakeGenerator) AccessJwt() string {
	return "eyJ" + f.randomHex(24)
}

// Duration generates a random duration between min and max.
func (f *fakeGenerator) Duration(min, max time.Duration) time.Duration {
	minNanos := min.Nanoseconds()
	maxNanos := max.Nanoseconds()
	deltaNanos := f.randomInt64(0, maxNanos-minNanos)
	return time.Duration(minNanos + deltaNanos)
}

// Helpers

func (f *fakeGenerator) randomHex(byteLength int) string {
	bytes := make([]byte, byteLength)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (f *fakeGenerator) randomChoice(choices []string) string {
	idx := f.randomInt(0, len(choices))
	return choices[idx]
}

func (f *fakeGenerator) randomInt(min, max int) int {
	if max <= min {
		return min
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return min + int(n.Int64())
}

func (f *fakeGenerator) randomInt64(min, max int64) int64 {
	if max <= min {
		return min
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(max-min))
	return min + n.Int64()
}
