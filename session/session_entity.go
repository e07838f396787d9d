package session

import (
	"context"
	"time"

	"github.com/fundwit/go-commons/types"
)

const (
	RoleWorker     = "worker"
	RoleContractor = "contractor"
	RoleAdmin      = "admin"
)

// Session is the single typed identity attached to every request,
// replacing the per-role name keys the mobile clients used to keep.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
	Role     string   `json:"role"`

	SigningTime time.Time `json:"-"`

	Context context.Context `json:"-"`
}

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

func (s *Session) Clone() Session {
	c := *s
	return c
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s *Session) IsContractor() bool {
	return s.Role == RoleContractor
}

func (s *Session) IsWorker() bool {
	return s.Role == RoleWorker
}

// DisplayName is the identity recorded as approver, creator and actor
// on domain records.
func (s *Session) DisplayName() string {
	if s.Identity.Nickname != "" {
		return s.Identity.Nickname
	}
	return s.Identity.Name
}

func IsKnownRole(role string) bool {
	return role == RoleWorker || role == RoleContractor || role == RoleAdmin
}
