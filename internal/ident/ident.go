// Package ident generates short random task identifiers.
package ident

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Prefix is the fixed identifier prefix shared by every task id.
const Prefix = "jt-"

// Generate reads two bytes from r and formats them as a task identifier
// of the form "jt-9f3a". It never fails: a short or failed read falls
// back to zero bytes, which callers treat like any other candidate.
func Generate(r io.Reader) string {
	var buf [2]byte
	_, _ = io.ReadFull(r, buf[:])
	return fmt.Sprintf("%s%04x", Prefix, binary.BigEndian.Uint16(buf[:]))
}

// New returns a fresh identifier from the system random source.
func New() string {
	return Generate(rand.Reader)
}

// Normalize expands a user-supplied id or prefix to canonical form,
// prepending the "jt-" prefix when absent so that "9f" matches "jt-9f3a".
func Normalize(partial string) string {
	if strings.HasPrefix(partial, Prefix) {
		return partial
	}
	return Prefix + partial
}
