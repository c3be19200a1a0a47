package user

import (
	"net/mail"
	"strings"

	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"golang.org/x/crypto/bcrypt"
)

const (
	HeaderUserEmail   = "x-user-email"
	MaxFieldLength    = 255
	MinPasswordLength = 4
	// MaxPasswordLength is the bcrypt input limit.
	MaxPasswordLength = 72
)

var (
	ErrLocked     = crud.NewUserFriendlyError("User has been locked and cannot be modified or deleted")
	ErrDeleteSelf = crud.NewUserFriendlyError("You cannot delete your own account")
)

type Service struct {
	crud.FilterableBase[User, int64]
	store Store
	cost  int
}

func NewService(store Store) *Service {
	return &Service{
		FilterableBase: crud.NewFilterableBase[User, int64](store),
		store:          store,
		cost:           bcrypt.DefaultCost,
	}
}

// WithCost sets the bcrypt cost used for new passwords.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) CreateNew(_ crud.Actor) *User {
	return &User{Role: RoleBarista}
}

// Save validates u and hashes its password when one is given. Locked users are rejected
// using their stored state.
func (s *Service) Save(ctx *router.Context, _ crud.Actor, u *User) (*User, error) {
	if u.ID != 0 {
		stored, err := s.Load(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if stored.Locked {
			return nil, ErrLocked
		}
		if u.PasswordHash == "" {
			u.PasswordHash = stored.PasswordHash
		}
	}

	u.Email = strings.TrimSpace(u.Email)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if err := Validate(u); err != nil {
		return nil, err
	}

	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
		u.Password = ""
	}

	return s.store.Save(ctx, u)
}

func (s *Service) Delete(ctx *router.Context, actor crud.Actor, id int64) error {
	u, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	if u.ID == actor.ID || strings.EqualFold(u.Email, actor.Email) {
		return ErrDeleteSelf
	}
	if u.Locked {
		return ErrLocked
	}
	return s.store.Delete(ctx, u)
}

func Validate(u *User) error {
	switch {
	case u.Email == "":
		return crud.NewUserFriendlyError("Email is required")
	case len(u.Email) > MaxFieldLength:
		return crud.NewUserFriendlyError("Email must be at most %d characters", MaxFieldLength)
	case !validEmail(u.Email):
		return crud.NewUserFriendlyError("Email is not a valid address")
	case u.FirstName == "" || u.LastName == "":
		return crud.NewUserFriendlyError("First and last name are required")
	case len(u.FirstName) > MaxFieldLength || len(u.LastName) > MaxFieldLength:
		return crud.NewUserFriendlyError("Names must be at most %d characters", MaxFieldLength)
	case !u.Role.Valid():
		return crud.NewUserFriendlyError("Role must be one of admin, baker or barista")
	case u.Password == "" && u.PasswordHash == "":
		return crud.NewUserFriendlyError("Password is required")
	case u.Password != "" && (len(u.Password) < MinPasswordLength || len(u.Password) > MaxPasswordLength):
		return crud.NewUserFriendlyError("Password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Actor resolves the acting user from the x-user-email header.
func (s *Service) Actor(ctx *router.Context) (crud.Actor, error) {
	email := ctx.Header(HeaderUserEmail)
	if email == "" {
		return crud.Actor{}, crud.ErrUnauthorized
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return crud.Actor{}, err
	}
	if u == nil {
		return crud.Actor{}, crud.ErrUnauthorized
	}
	return crud.Actor{ID: u.ID, Email: u.Email, Name: u.FullName()}, nil
}
