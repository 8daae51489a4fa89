// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package mf

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wneessen/weatherfold/internal/logger"
)

// tokenClass is the client class the API expects in the token claims.
const tokenClass = "mobile"

// Claims are the claims of a Météo-France API token.
type Claims struct {
	Class string `json:"class"`
	jwt.RegisteredClaims
}

// NewToken returns an HS256 signed token for the given signing key, issued at now.
func NewToken(key []byte, now time.Time) (string, error) {
	if len(key) == 0 {
		return "", errors.New("empty token signing key")
	}
	claims := Claims{
		Class: tokenClass,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// token returns the API token of a request. A signed token is preferred; without a
// signing key, or when signing fails, the static token is used.
func (s *Service) token() (string, error) {
	if len(s.signingKey) > 0 {
		token, err := s.sign(s.signingKey, s.settings.CurrentTime())
		if err == nil {
			return token, nil
		}
		if s.staticToken == "" {
			return "", err
		}
		s.log.Warn("failed to sign API token, using static token", logger.Err(err))
	}
	if s.staticToken == "" {
		return "", errors.New("no Météo-France API token configured")
	}
	return s.staticToken, nil
}
