// Package id generates identifiers that tag the log records of one promotion
// batch.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// Batch returns a new identifier of the form batch_<8 hex chars>.
func Batch() string {
	return New("batch")
}

// New returns prefix followed by an underscore and 8 random hex characters.
func New(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		ts := strconv.FormatInt(time.Now().UnixNano(), 16)
		return prefix + "_" + ts[len(ts)-8:]
	}
	return prefix + "_" + hex.EncodeToString(b)
}
