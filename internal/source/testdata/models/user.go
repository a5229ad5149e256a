package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
//
//entitysql:entity table=users
type User struct {
	ID uuid.UUID `sql:"id,pk"`
	// Display name shown in the UI.
	Name      string
	Email     string `sqltype:"VARCHAR(320)" comment:"login address"`
	CreatedAt time.Time
	Tags      []string
	cache     map[string]string
	Scratch   []byte `sql:"-"`
}

// Session is not an entity.
type Session struct {
	Token string
}
