package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// codeRand is the entropy source for verification codes.
var codeRand io.Reader = rand.Reader

var ten = big.NewInt(10)

// GenerateCode returns a string of length uniformly random decimal digits.
// Leading zeros are kept.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(codeRand, ten)
		if err != nil {
			return "", fmt.Errorf("error generating code: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
