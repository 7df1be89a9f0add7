package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NumericCode genera un codigo de verificacion de 6 digitos, uniforme en
// [100000, 999999], con fuente criptografica.
func NumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// BearerToken genera un token de 32 bytes aleatorios en hex minuscula
// (64 caracteres).
func BearerToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
