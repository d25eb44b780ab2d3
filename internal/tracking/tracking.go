package tracking

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"rose-booking/internal/apperr"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MaxAttempts bounds regeneration when a code collides with an existing row.
const MaxAttempts = 5

// ExistsFunc reports whether a code is already in use.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Generator struct {
	Length int
	random func(n int) (string, error)
}

func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = 8
	}
	return &Generator{Length: length, random: randomCode}
}

// Unique returns a code that exists reports as unused.
func (g *Generator) Unique(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code, err := g.random(g.Length)
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking code: %w", err)
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check tracking code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperr.Conflict("could not allocate a unique tracking code, please retry")
}

func randomCode(n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
