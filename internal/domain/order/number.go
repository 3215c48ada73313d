package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

var numberPattern = regexp.MustCompile(`^ORD-[1-9][0-9]{5}$`)

type Number string

func (n Number) String() string {
	return string(n)
}

func (n Number) IsValid() bool {
	return numberPattern.MatchString(string(n))
}

type NumberGenerator interface {
	Next() (Number, error)
}

type randomNumberGenerator struct{}

func NewRandomNumberGenerator() NumberGenerator {
	return randomNumberGenerator{}
}

// Next returns ORD- followed by a uniformly drawn value in [100000, 999999].
func (randomNumberGenerator) Next() (Number, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to draw order number: %w", err)
	}
	return Number(fmt.Sprintf("ORD-%d", 100000+n.Int64())), nil
}
