// internal/auth/validator.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"channel-feed/internal/client"
)

var ErrInvalidToken = errors.New("oauth token is not valid")

type tokenInfo struct {
	Token struct {
		Valid         bool   `json:"valid"`
		UserID        string `json:"user_id"`
		UserName      string `json:"user_name"`
		ClientID      string `json:"client_id"`
		Authorization struct {
			Scopes []string `json:"scopes"`
		} `json:"authorization"`
	} `json:"token"`
}

// Validator turns a raw OAuth token into a Credential using the API root,
// which describes the token it was called with.
type Validator struct {
	requester client.Requester
}

func NewValidator(requester client.Requester) *Validator {
	return &Validator{requester: requester}
}

func (v *Validator) Validate(ctx context.Context, token string) (*Credential, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var info tokenInfo
	err := v.requester.Execute(ctx, client.Request{
		Method: http.MethodGet,
		Path:   "/",
		Token:  token,
	}, &info)
	if err != nil {
		return nil, fmt.Errorf("token introspection: %w", err)
	}

	if !info.Token.Valid || info.Token.UserID == "" {
		return nil, ErrInvalidToken
	}

	scopes, unknown := ParseScopes(info.Token.Authorization.Scopes)
	if len(unknown) > 0 {
		slog.Warn("Token carries unknown scopes", "user_id", info.Token.UserID, "scopes", unknown)
	}

	return &Credential{
		Token:    token,
		UserID:   info.Token.UserID,
		UserName: info.Token.UserName,
		Scopes:   scopes,
	}, nil
}
