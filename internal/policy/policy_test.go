package policy

import (
	"testing"

	"github.com/maheshrc27/contentflow/internal/models"
)

func TestCapabilities(t *testing.T) {
	tests := []struct {
		role        models.Role
		edit        bool
		approve     bool
		del         bool
		manageTeam  bool
		viewFinance bool
		internal    bool
	}{
		{models.RoleAgencyAdmin, true, true, true, true, true, true},
		{models.RoleAgencyCreator, true, false, false, false, false, true},
		{models.RoleClientAdmin, false, true, false, false, false, false},
		{models.RoleClientViewer, false, false, false, false, false, false},
		{models.RoleAgency, true, true, true, false, false, true},
		{models.RoleClient, false, true, false, false, false, false},
		{models.Role("superuser"), false, false, false, false, false, false},
		{models.Role(""), false, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := CanEdit(tt.role); got != tt.edit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.edit)
			}
			if got := CanApprove(tt.role); got != tt.approve {
				t.Errorf("CanApprove() = %v, want %v", got, tt.approve)
			}
			if got := CanDelete(tt.role); got != tt.del {
				t.Errorf("CanDelete() = %v, want %v", got, tt.del)
			}
			if got := CanManageTeam(tt.role); got != tt.manageTeam {
				t.Errorf("CanManageTeam() = %v, want %v", got, tt.manageTeam)
			}
			if got := CanViewFinance(tt.role); got != tt.viewFinance {
				t.Errorf("CanViewFinance() = %v, want %v", got, tt.viewFinance)
			}
			if got := IsInternal(tt.role); got != tt.internal {
				t.Errorf("IsInternal() = %v, want %v", got, tt.internal)
			}
		})
	}
}

func TestLabelIsNotAuthorization(t *testing.T) {
	// a role that merely contains "admin" gets nothing
	role := models.Role("not_an_admin")
	if CanApprove(role) || CanDelete(role) || Known(role) {
		t.Errorf("unknown role %q should be denied everything", role)
	}
	if got := Label(models.RoleAgencyAdmin); got != "agency admin" {
		t.Errorf("Label() = %q, want %q", got, "agency admin")
	}
}
