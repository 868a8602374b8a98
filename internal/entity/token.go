package entity

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 32

// NewToken devuelve un token opaco de 256 bits en hexadecimal. Es el único control de
// acceso de las rutas públicas (propuestas, facturas, demos).
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
