package service

import (
	"context"
	"fmt"

	"juridico/internal/domain"
	"juridico/internal/port"
)

// RegisterInput is the storefront sign-up form. Accounts created here are always customers.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// RegisterOutput returns the new account already signed in.
type RegisterOutput struct {
	User   *domain.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
}

type registrationService struct {
	users port.UserRepository
	auth  AuthService
}

func NewRegistrationService(users port.UserRepository, auth AuthService) RegistrationService {
	return &registrationService{users: users, auth: auth}
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	user, err := newAccount(input.Email, input.Password, input.FullName, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.auth.Login(ctx, LoginInput{Email: user.Email, Password: input.Password})
	if err != nil {
		return nil, fmt.Errorf("signing in %s after registration: %w", user.Email, err)
	}
	return &RegisterOutput{User: user, Tokens: tokens}, nil
}
