package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HSSessionVerifier implements ports.SessionVerifier for player session
// tokens minted by the external identity provider. The provider signs with a
// shared HS256 secret and puts the profile id in the subject claim.
type HSSessionVerifier struct {
	secret []byte
}

// NewHSSessionVerifier creates a session verifier with the provider's shared
// secret.
func NewHSSessionVerifier(secret string) *HSSessionVerifier {
	return &HSSessionVerifier{secret: []byte(secret)}
}

// Verify validates the session token and returns the profile id.
func (v *HSSessionVerifier) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid session claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing subject claim")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in session: %w", err)
	}

	return userID, nil
}
