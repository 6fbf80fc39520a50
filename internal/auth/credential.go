// internal/auth/credential.go
package auth

import (
	"errors"
	"fmt"
	"slices"
)

// ErrScopeMissing is matched by every CredentialError.
var ErrScopeMissing = errors.New("required scope missing")

// Credential is an OAuth token together with the identity and scopes it was
// granted for. It is never modified by this package.
type Credential struct {
	Token    string
	UserID   string
	UserName string
	Scopes   []Scope
}

func (c *Credential) HasScope(scope Scope) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Scopes, scope)
}

// CredentialError reports that a credential lacks the scope an operation needs.
type CredentialError struct {
	UserID string
	Scope  Scope
	Reason string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential for user %q cannot be used: %s", e.UserID, e.Reason)
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrScopeMissing
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorize checks scope membership without producing an error, so callers
// can branch on the outcome directly.
func Authorize(cred *Credential, scope Scope) Decision {
	if cred == nil {
		return Decision{Reason: "no credential supplied"}
	}
	if !cred.HasScope(scope) {
		return Decision{Reason: fmt.Sprintf("scope %s not granted", scope)}
	}
	return Decision{Allowed: true}
}

// RequireScope returns a *CredentialError when cred does not carry scope.
func RequireScope(cred *Credential, scope Scope) error {
	decision := Authorize(cred, scope)
	if decision.Allowed {
		return nil
	}

	var userID string
	if cred != nil {
		userID = cred.UserID
	}
	return &CredentialError{UserID: userID, Scope: scope, Reason: decision.Reason}
}
