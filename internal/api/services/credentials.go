package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/repositories"
	"github.com/rohits-web03/worklog/internal/utils"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// Register creates a user with a hashed password and no API key.
func Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if password == "" {
		return nil, utils.ValidationError("Password is required")
	}

	_, err := repositories.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, utils.ConflictError("User with this email already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, utils.InternalError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return nil, utils.InternalError(err)
	}

	user := &models.User{Username: username, Email: email, Password: string(hash)}
	if err := repositories.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent registration for the same email.
		if _, lookupErr := repositories.FindUserByEmail(ctx, email); lookupErr == nil {
			return nil, utils.ConflictError("User with this email already exists")
		}
		return nil, utils.InternalError(err)
	}
	return user, nil
}

// Login checks the password and issues a fresh API key, replacing any
// previous one.
func Login(ctx context.Context, email, password string) (string, error) {
	user, err := repositories.FindUserByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", utils.NotFoundError("User not found")
	}
	if err != nil {
		return "", utils.InternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", utils.AuthError("Invalid password")
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return "", utils.InternalError(err)
	}
	if err := repositories.SetAPIKey(ctx, user.ID, &apiKey); err != nil {
		return "", utils.InternalError(err)
	}
	return apiKey, nil
}

// Logout clears the user's API key.
func Logout(ctx context.Context, userID uint) error {
	if err := repositories.SetAPIKey(ctx, userID, nil); err != nil {
		return utils.InternalError(err)
	}
	return nil
}
