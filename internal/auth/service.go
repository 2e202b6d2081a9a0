package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/shared"
)

// decoyHash is compared against when no credential matches, so unknown
// users cost the same bcrypt round as a wrong password.
var decoyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// Service checks login attempts against a CredentialStore.
type Service struct {
	store CredentialStore
}

// NewService constructs a new Service.
func NewService(store CredentialStore) *Service {
	return &Service{store: store}
}

// Authenticate checks role, user ID and password against the store. The
// user ID is trimmed; role and password must match exactly. Every mismatch
// yields shared.ErrInvalidCredentials; store failures are returned wrapped.
func (s *Service) Authenticate(ctx context.Context, role navigation.Role, userID, password string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" || !role.Valid() {
		return nil, shared.ErrInvalidCredentials
	}

	cred, err := s.store.Lookup(ctx, role, userID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password))
		return nil, shared.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("auth: lookup %s/%s: %w", role, userID, err)
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return &User{
		Role:     cred.Role,
		UserID:   cred.UserID,
		Password: password,
		SchoolID: cred.SchoolID,
	}, nil
}
