package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// GrantLookup is the slice of the row store needed to verify grant credentials
type GrantLookup interface {
	GetAccessGrantByUsername(username string) (*models.AccessGrant, error)
}

// LocalAuthProvider verifies access grant credentials against bcrypt hashes
// held in the row store.
type LocalAuthProvider struct {
	grants GrantLookup
	cost   int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewLocalAuthProvider creates a new local authentication provider
func NewLocalAuthProvider(grants GrantLookup, cost int) *LocalAuthProvider {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &LocalAuthProvider{grants: grants, cost: cost}
}

// Authenticate returns the grant for username if password matches its hash.
// Unknown usernames still pay for one bcrypt comparison so the two failure
// modes cost the same and return the same error.
func (p *LocalAuthProvider) Authenticate(
	ctx context.Context,
	username, password string,
) (*models.AccessGrant, error) {
	grant, err := p.grants.GetAccessGrantByUsername(username)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(p.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(grant.PasswordHash),
		[]byte(password),
	); err != nil {
		return nil, ErrInvalidCredentials
	}

	return grant, nil
}

// HashPassword returns a bcrypt hash of password at the provider's cost
func (p *LocalAuthProvider) HashPassword(password string) (string, error) {
	return HashPassword(password, p.cost)
}

// Name returns provider name for logging
func (p *LocalAuthProvider) Name() string {
	return "local"
}

func (p *LocalAuthProvider) dummy() []byte {
	p.dummyOnce.Do(func() {
		p.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), p.cost)
	})
	return p.dummyHash
}

// HashPassword returns a bcrypt hash of password
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
