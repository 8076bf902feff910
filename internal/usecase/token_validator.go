package usecase

import (
	"medrecords-gateway/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenIdentity is what middleware needs from a bearer token.
type TokenIdentity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (TokenIdentity, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (TokenIdentity, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return TokenIdentity{}, err
	}

	return TokenIdentity{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}
