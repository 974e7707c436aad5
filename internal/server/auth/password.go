package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

type BcryptHasher struct {
	Cost  int
	dummy []byte
}

// NewBcryptHasher returns a hasher with the given cost; zero means
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptHasher{Cost: cost, dummy: dummy}, nil
}

func (h *BcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.Cost)
}

// Compare reports whether password matches hash. A nil hash is compared
// against a throwaway hash of the same cost, so lookups of unknown accounts
// take as long as real ones and still fail.
func (h *BcryptHasher) Compare(hash []byte, password string) bool {
	if hash == nil {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
