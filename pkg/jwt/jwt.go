package jwt

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

// SealClaims firma el contenido de las cookies de sesión que el gateway usa para
// autorizar rutas (authUser y grantedMenus). El token del backend no viaja aquí.
type SealClaims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	MenusDigest string `json:"menus_digest"`
}

// MenusDigest calcula una huella independiente del orden de la lista de menús.
func MenusDigest(menus []string) string {
	sorted := append([]string(nil), menus...)
	sort.Strings(sorted)
	sum := blake2b.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])
}

// Generate genera el sello firmado (HS256) para un usuario y su lista de menús.
func Generate(secret, userID string, menus []string, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := SealClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:      userID,
		MenusDigest: MenusDigest(menus),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el sello y devuelve sus claims.
// Retorna error si el sello es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*SealClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &SealClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SealClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// Verify comprueba que el sello corresponda al usuario y a la lista de menús presentados.
func Verify(secret, tokenString, userID string, menus []string) error {
	claims, err := Parse(secret, tokenString)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return fmt.Errorf("jwt: el sello no corresponde al usuario")
	}
	if claims.MenusDigest != MenusDigest(menus) {
		return fmt.Errorf("jwt: la lista de menús fue alterada")
	}
	return nil
}
