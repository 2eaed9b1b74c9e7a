package devapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stridecart/internal/devapi/repos"
	"stridecart/internal/domain"
	"stridecart/internal/validate"
)

var (
	ErrBadCreds     = apiError(fiber.StatusUnauthorized, "Invalid email or password")
	ErrEmailTaken   = apiError(fiber.StatusConflict, "Email is already registered")
	ErrInvalidName  = apiError(fiber.StatusBadRequest, "Please enter a name (up to 50 characters)")
	ErrInvalidEmail = apiError(fiber.StatusBadRequest, "Please enter a valid email address")
	ErrWeakPassword = apiError(fiber.StatusBadRequest, "Password must be 8-64 characters and mix upper and lower case letters, digits and symbols")
)

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *Tokens
}

func (s *AuthService) Login(email, password string) (*domain.Session, error) {
	row, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(row.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return s.session(row)
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(name, email, password string) (*domain.Session, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, ErrInvalidName
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, ErrInvalidEmail
	}
	if !validate.Password(password) {
		return nil, ErrWeakPassword
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	row := repos.UserRow{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  domain.RoleCustomer.String(),
	}
	if err := s.Users.Create(row); err != nil {
		return nil, err
	}
	return s.session(&row)
}

// Authenticate resolves a bearer token to the current account. Tokens of
// deleted users are rejected.
func (s *AuthService) Authenticate(token string) (*domain.User, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	row, err := s.Users.ByID(claims.Subject)
	if err != nil {
		return nil, ErrBadToken
	}
	u, err := row.User()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) session(row *repos.UserRow) (*domain.Session, error) {
	u, err := row.User()
	if err != nil {
		return nil, err
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &domain.Session{User: u, Token: tok}, nil
}
