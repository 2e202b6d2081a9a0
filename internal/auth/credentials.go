package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/shared"
)

// Credential is a stored login with its password hash.
type Credential struct {
	Role         navigation.Role
	UserID       string
	PasswordHash []byte
	SchoolID     string
}

// CredentialStore looks up credentials by role and user ID.
type CredentialStore interface {
	Lookup(ctx context.Context, role navigation.Role, userID string) (Credential, error)
}

type credentialKey struct {
	role   navigation.Role
	userID string
}

// StaticCredentials is an in-memory, read-only CredentialStore.
type StaticCredentials struct {
	byKey map[credentialKey]Credential
}

// NewStaticCredentials hashes the given accounts with bcrypt at cost.
func NewStaticCredentials(accounts []Account, cost int) (*StaticCredentials, error) {
	store := &StaticCredentials{byKey: make(map[credentialKey]Credential, len(accounts))}
	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash %s/%s: %w", acc.Role, acc.UserID, err)
		}
		store.byKey[credentialKey{role: acc.Role, userID: acc.UserID}] = Credential{
			Role:         acc.Role,
			UserID:       acc.UserID,
			PasswordHash: hash,
			SchoolID:     acc.SchoolID,
		}
	}
	return store, nil
}

// Lookup returns shared.ErrNotFound for unknown pairs.
func (s *StaticCredentials) Lookup(ctx context.Context, role navigation.Role, userID string) (Credential, error) {
	cred, ok := s.byKey[credentialKey{role: role, userID: userID}]
	if !ok {
		return Credential{}, shared.ErrNotFound
	}
	return cred, nil
}

var _ CredentialStore = (*StaticCredentials)(nil)
