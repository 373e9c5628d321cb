package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns a loan identifier: a time-ordered UUIDv7 as 32 lowercase
// hex characters, so ids sort roughly by creation.
func NewID32() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return hex.EncodeToString(u[:])
}
