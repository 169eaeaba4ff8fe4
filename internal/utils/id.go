package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

const idBytes = 12

// NewID returns a short hex connection identifier.
func NewID() string {
	var buf [idBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Timestamp fallback when crypto/rand is unavailable.
		return "t" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(buf[:])
}
