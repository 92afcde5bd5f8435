package identity

import (
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// idReader is swapped out by tests for a deterministic source.
var idReader = cryptorand.Reader

const (
	idEntropyBytes = 17
	idBase         = 36
	// idLength is the number of base36 characters needed for 2^128-1.
	idLength = 25
)

// NewID returns a random identifier of idLength base36 characters.
func NewID() string {
	var p [idEntropyBytes]byte

	if _, err := io.ReadFull(idReader, p[:]); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %v", err))
	}

	// the high bit guarantees a full-length rendering, and is then dropped
	p[0] |= 0x80
	return (&big.Int{}).SetBytes(p[:]).Text(idBase)[1 : idLength+1]
}

// IsID reports whether s has the shape of an identifier made by NewID.
func IsID(s string) bool {
	if len(s) != idLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	_, ok := (&big.Int{}).SetString(s, idBase)
	return ok
}
