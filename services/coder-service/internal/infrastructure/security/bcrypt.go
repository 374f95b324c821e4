package security

import "golang.org/x/crypto/bcrypt"

type BcryptService struct {
	cost int
}

func NewBcryptService() *BcryptService {
	return &BcryptService{cost: bcrypt.DefaultCost}
}

// NewBcryptServiceWithCost is used by tests, where the default cost is needlessly slow.
func NewBcryptServiceWithCost(cost int) *BcryptService {
	return &BcryptService{cost: cost}
}

func (s *BcryptService) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(bytes), err
}

func (s *BcryptService) Compare(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
