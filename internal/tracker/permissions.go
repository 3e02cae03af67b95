package tracker

import "github.com/grrt-recruitment/pipeline/internal/dtos"

// Permissions decides which actions to offer. It only hides actions; the
// server enforces the real checks.
type Permissions struct {
	CanManageJobs       bool
	CanManageUsers      bool
	CanDeleteCandidates bool
}

func PermissionsFor(roles []string) Permissions {
	var p Permissions
	for _, r := range roles {
		switch r {
		case dtos.RoleAdmin:
			p.CanManageUsers = true
			p.CanManageJobs = true
			p.CanDeleteCandidates = true
		case dtos.RoleManager:
			p.CanManageJobs = true
			p.CanDeleteCandidates = true
		}
	}
	return p
}
