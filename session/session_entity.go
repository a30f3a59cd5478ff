package session

import (
	"context"
	"time"

	"construxflow/authority"

	"github.com/fundwit/go-commons/types"
)

// Session is the request scoped identity handed to every domain operation
type Session struct {
	Token    string                `json:"token"`
	Identity Identity              `json:"identity"`
	Perms    authority.Permissions `json:"perms"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
	Role string   `json:"role"`
}

func (s *Session) Clone() Session {
	var perms authority.Permissions
	if s.Perms != nil {
		perms = make(authority.Permissions, len(s.Perms))
		copy(perms, s.Perms)
	}
	return Session{Token: s.Token, Identity: s.Identity, Perms: perms, SigningTime: s.SigningTime, Context: s.Context}
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.Identity.ID != 0
}

// HasRole reports whether the session identity acts as role
func (s *Session) HasRole(role string) bool {
	return s != nil && (s.Identity.Role == role || s.Perms.HasRole(role))
}
