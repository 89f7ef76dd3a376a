package schema

import (
	"strings"

	"github.com/menna-app/menna-go/internal/domain"
)

type tokenWire struct {
	AccessToken  *string `json:"access_token" validate:"required"`
	RefreshToken *string `json:"refresh_token"`
	TokenType    *string `json:"token_type"`
}

// ParseToken validates a login/refresh response. token_type defaults to "bearer".
func (v *Validator) ParseToken(data []byte) (*domain.TokenResponse, error) {
	var wire tokenWire
	if err := decode(data, &wire, ""); err != nil {
		return nil, err
	}
	if err := v.validate.Struct(&wire); err != nil {
		return nil, toValidationError(err, "")
	}

	token := &domain.TokenResponse{
		AccessToken: *wire.AccessToken,
		TokenType:   "bearer",
	}
	if wire.RefreshToken != nil {
		token.RefreshToken = *wire.RefreshToken
	}
	if wire.TokenType != nil && strings.TrimSpace(*wire.TokenType) != "" {
		token.TokenType = strings.ToLower(*wire.TokenType)
	}
	return token, nil
}

func (v *Validator) ValidateLogin(req *domain.LoginRequest) error {
	if req == nil {
		return toValidationError(errNilPayload, "")
	}
	req.Email = strings.TrimSpace(req.Email)
	return v.Struct(req)
}

func ParseToken(data []byte) (*domain.TokenResponse, error) {
	return Default().ParseToken(data)
}

func ValidateLogin(req *domain.LoginRequest) error {
	return Default().ValidateLogin(req)
}
