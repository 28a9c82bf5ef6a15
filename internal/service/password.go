package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher encapsula el hashing bcrypt con un costo inyectado
// por configuración; nunca lee estado global.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash deriva un hash bcrypt con salt aleatorio embebido.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify compara en tiempo constante; un hash malformado cuenta como
// mismatch, nunca como error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
