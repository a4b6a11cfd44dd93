package logger

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint devuelve un identificador corto y estable de un token de sesión.
// El token nunca se escribe en los logs; solo esta huella.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
