package devapi

import (
	"github.com/gofiber/fiber/v2"

	"stridecart/internal/devapi/repos"
	"stridecart/internal/domain"
	"stridecart/internal/validate"
)

var (
	ErrDeleteSelf  = apiError(fiber.StatusBadRequest, "You cannot delete your own account")
	ErrInvalidRole = apiError(fiber.StatusBadRequest, "Role must be customer or manager")
)

// UserService is the manager's view of accounts.
type UserService struct {
	Users *repos.UserRepo
}

func (s *UserService) List() ([]domain.User, error) {
	rows, err := s.Users.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		u, err := r.User()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *UserService) Update(id string, upd domain.CustomerUpdate) error {
	name, ok := validate.Name(upd.Name)
	if !ok {
		return ErrInvalidName
	}
	email, ok := validate.Email(upd.Email)
	if !ok {
		return ErrInvalidEmail
	}
	switch upd.Role {
	case domain.RoleCustomer, domain.RoleManager:
	default:
		return ErrInvalidRole
	}
	if other, err := s.Users.ByEmail(email); err == nil && other.ID != id {
		return ErrEmailTaken
	}
	found, err := s.Users.Update(id, name, email, upd.Role.String())
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Delete removes the account with id. Managers cannot delete themselves.
func (s *UserService) Delete(actor *domain.User, id string) error {
	if actor != nil && actor.ID == id {
		return ErrDeleteSelf
	}
	found, err := s.Users.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
