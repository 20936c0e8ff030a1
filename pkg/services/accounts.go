package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/models"

	"golang.org/x/crypto/bcrypt"
)

// Accounts is the credential store
type Accounts struct {
	db              database.DatabaseInterface
	registrationKey string
	cost            int
}

func NewAccounts(db database.DatabaseInterface, registrationKey string) *Accounts {
	return &Accounts{db: db, registrationKey: registrationKey, cost: bcrypt.DefaultCost}
}

// Register creates a user. The username is checked before the key.
func (a *Accounts) Register(ctx context.Context, username, password, registrationKey string) (*models.User, error) {
	form := models.RegisterForm{Username: username, Password: password, RegisterKey: registrationKey}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	_, err := a.db.GetUserByUsername(ctx, form.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("register %q: %w", form.Username, ErrConflict)
	case !database.IsNotFound(err):
		return nil, storeError("register", err)
	}

	if subtle.ConstantTimeCompare([]byte(form.RegisterKey), []byte(a.registrationKey)) != 1 {
		return nil, ErrInvalidKey
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.ValidationErrors{{Field: "password", Message: "Password is too long."}}
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: form.Username, PasswordHash: string(hash)}
	// a concurrent registration of the same name lands here as ErrConflict
	if err := a.db.CreateUser(ctx, user); err != nil {
		return nil, storeError("register", err)
	}
	return user, nil
}

// Login returns the user when the password matches its stored hash
func (a *Accounts) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrAuthFailed
	}

	user, err := a.db.GetUserByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrAuthFailed
		}
		return nil, storeError("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthFailed
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

// UserByID resolves the session's user id; a missing user is ErrNotFound
func (a *Accounts) UserByID(ctx context.Context, id int64) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := a.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	return user, nil
}
