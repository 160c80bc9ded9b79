// Package daily picks the puzzle of the day.
//
// A puzzle dated today (id == YYYY-MM-DD) always wins. Otherwise the day's
// puzzle is chosen deterministically from the catalog with
// HMAC(salt, YYYY-MM-DD), so every server sharing a salt agrees on it.
package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"
)

// ErrEmpty is returned when the catalog has no puzzles.
var ErrEmpty = errors.New("no puzzles available")

// Lister lists puzzle ids.
type Lister interface {
	IDs(ctx context.Context) ([]string, error)
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// PuzzleID returns the id of the puzzle for date.
func PuzzleID(ctx context.Context, src Lister, salt string, date time.Time) (string, error) {
	ids, err := src.IDs(ctx)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", ErrEmpty
	}
	key := DateKey(date)
	for _, id := range ids {
		if id == key {
			return id, nil
		}
	}
	return ids[Index(date, salt, len(ids))], nil
}
