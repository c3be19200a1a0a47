package user

import (
	"strconv"

	"github.com/sing3demons/go-bakery-service/crud"
)

func NewHandler(svc *Service) *crud.Handler[User, int64] {
	return crud.NewHandler[User, int64](svc, crud.Options[User, int64]{
		Name:    "users",
		ParseID: func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
		IDOf:    func(u *User) int64 { return u.ID },
		Actor:   svc.Actor,
	})
}
