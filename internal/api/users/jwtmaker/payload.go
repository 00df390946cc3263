package jwtmaker

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

func NewPayload(user string, lifetime time.Duration) (*jwt.StandardClaims, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	return &jwt.StandardClaims{
		ExpiresAt: time.Now().Add(lifetime).Unix(),
		Id:        tokenID.String(),
		IssuedAt:  time.Now().Unix(),
		NotBefore: time.Now().Unix(),
		Subject:   user,
	}, nil
}
