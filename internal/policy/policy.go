// Package policy maps roles to the capabilities the workflow checks before
// mutating anything. Unknown roles get no capabilities.
package policy

import (
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
)

type Capability uint8

const (
	Edit Capability = 1 << iota
	Approve
	Delete
	ManageTeam
	ViewFinance
	Internal
)

var capabilities = map[models.Role]Capability{
	models.RoleAgencyAdmin:   Edit | Approve | Delete | ManageTeam | ViewFinance | Internal,
	models.RoleAgencyCreator: Edit | Internal,
	models.RoleClientAdmin:   Approve,
	models.RoleClientViewer:  0,
	models.RoleAgency:        Edit | Approve | Delete | Internal,
	models.RoleClient:        Approve,
}

func has(role models.Role, c Capability) bool {
	return capabilities[role]&c == c
}

func CanEdit(role models.Role) bool { return has(role, Edit) }
func CanApprove(role models.Role) bool { return has(role, Approve) }
func CanDelete(role models.Role) bool { return has(role, Delete) }
func CanManageTeam(role models.Role) bool { return has(role, ManageTeam) }
func CanViewFinance(role models.Role) bool { return has(role, ViewFinance) }

// IsInternal reports whether the role sits on the agency side. Comments written
// by such roles are hidden from clients.
func IsInternal(role models.Role) bool { return has(role, Internal) }

// Known reports whether role is one of the fixed role values.
func Known(role models.Role) bool {
	_, ok := capabilities[role]
	return ok
}

// Label renders a role for display only, e.g. "agency admin".
func Label(role models.Role) string {
	return strings.ReplaceAll(string(role), "_", " ")
}
