package transfer

import "github.com/maheshrc27/contentflow/internal/models"

type CreateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	ClientID *string     `json:"clientId,omitempty"`
}

// UpdateUserRequest leaves nil fields untouched. An empty Password keeps the
// current one.
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Password string       `json:"password,omitempty"`
	Role     *models.Role `json:"role,omitempty"`
	ClientID *string      `json:"clientId,omitempty"`
}
