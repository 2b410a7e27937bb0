package models

import "time"

type Role string

const (
	RoleAgencyAdmin   Role = "agency_admin"
	RoleAgencyCreator Role = "agency_creator"
	RoleClientAdmin   Role = "client_admin"
	RoleClientViewer  Role = "client_viewer"

	// legacy binary roles
	RoleAgency Role = "agency"
	RoleClient Role = "client"
)

type User struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	Password  string     `db:"password" json:"-"`
	Role      Role       `db:"role" json:"role"`
	ClientID  *string    `db:"client_id" json:"clientId"`
	LastLogin *time.Time `db:"last_login" json:"lastLogin"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// Actor is the already-authenticated identity a request acts as.
type Actor struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Role     Role    `json:"role"`
	ClientID *string `json:"clientId,omitempty"`
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role, ClientID: u.ClientID}
}

// TenantScope returns the client the actor is pinned to, or "" for agency-side actors.
func (a Actor) TenantScope() string {
	if a.ClientID == nil {
		return ""
	}
	return *a.ClientID
}
