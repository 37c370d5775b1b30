package meeting

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentcouncil/core"
)

// RoleInfo describes a company role an agent can play.
type RoleInfo struct {
	ID      core.Role `json:"id"`
	Title   string    `json:"title"`
	Persona string    `json:"persona"`
}

var catalogue = []RoleInfo{
	{
		ID:      core.RoleCEO,
		Title:   "Chief Executive Officer",
		Persona: "You are the CEO. You own the product vision, business value and priorities, and you make the final call when the team disagrees.",
	},
	{
		ID:      core.RoleCTO,
		Title:   "Chief Technology Officer",
		Persona: "You are the CTO. You own the technical strategy, technology choices and engineering risk.",
	},
	{
		ID:      core.RoleProductManager,
		Title:   "Product Manager",
		Persona: "You are the product manager. You translate goals into user stories with clear acceptance criteria and scope.",
	},
	{
		ID:      core.RoleArchitect,
		Title:   "Software Architect",
		Persona: "You are the software architect. You design components, interfaces and data flow, and you weigh trade-offs explicitly.",
	},
	{
		ID:      core.RoleTechLead,
		Title:   "Tech Lead",
		Persona: "You are the tech lead. You break work into tasks, set coding standards and keep the team unblocked.",
	},
	{
		ID:      core.RoleDeveloper,
		Title:   "Senior Developer",
		Persona: "You are a senior developer. You write clean, working code and point out implementation details others miss.",
	},
	{
		ID:      core.RoleQAEngineer,
		Title:   "QA Engineer",
		Persona: "You are the QA engineer. You think in test cases, edge cases and failure modes.",
	},
	{
		ID:      core.RoleDesigner,
		Title:   "UX Designer",
		Persona: "You are the UX designer. You advocate for the user, usability and accessibility.",
	},
	{
		ID:      core.RoleDevOpsEngineer,
		Title:   "DevOps Engineer",
		Persona: "You are the DevOps engineer. You care about CI/CD, deployment, observability and operability.",
	},
	{
		ID:      core.RoleSecurityEngineer,
		Title:   "Security Engineer",
		Persona: "You are the security engineer. You look for threats, vulnerabilities and compliance gaps.",
	},
}

// Roles returns the role catalogue in a stable order.
func Roles() []RoleInfo {
	return append([]RoleInfo(nil), catalogue...)
}

// LookupRole returns the catalogue entry for r.
func LookupRole(r core.Role) (RoleInfo, bool) {
	for _, info := range catalogue {
		if info.ID == r {
			return info, true
		}
	}
	return RoleInfo{}, false
}

// ParseRole converts a user-supplied role id into a known core.Role.
func ParseRole(s string) (core.Role, error) {
	r := core.Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := LookupRole(r); !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownRole, s)
	}
	return r, nil
}

// RoleIndex returns the position of r in the catalogue, or -1.
func RoleIndex(r core.Role) int {
	for i, info := range catalogue {
		if info.ID == r {
			return i
		}
	}
	return -1
}
