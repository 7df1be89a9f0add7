package service

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 10

// HashPassword genera el digest bcrypt de una contrasena.
func HashPassword(plain string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// VerifyPassword compara una contrasena en claro contra su digest bcrypt.
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// DigestLookupKey reduce un codigo o token a un digest estable apto para
// guardar y buscar. No es el hash lento de contrasenas: los codigos expiran
// rapido y los tokens tienen entropia alta, con SHA-256 alcanza y la
// busqueda por digest queda barata.
func DigestLookupKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
