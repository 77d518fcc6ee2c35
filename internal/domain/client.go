package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a registered customer. Email is stored normalized.
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"nome" db:"nome"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"data_criacao" db:"data_criacao"`
}

type ClientInput struct {
	Name  string
	Email string
}

// ClientPatch is a partial update. Nil fields are left untouched.
type ClientPatch struct {
	Name  *string
	Email *string
}

func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// Apply returns a copy of client with the patch merged in, the same merge the
// repository performs in SQL. Only tests call it, to model the stored row.
func (p ClientPatch) Apply(client Client) Client {
	if p.Name != nil {
		client.Name = *p.Name
	}
	if p.Email != nil {
		client.Email = *p.Email
	}
	return client
}

type ClientPage struct {
	Clients    []*Client  `json:"clients"`
	Pagination Pagination `json:"pagination"`
}
