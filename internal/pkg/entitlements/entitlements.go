package entitlements

import "strings"

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Normalize maps arbitrary tier strings (checkout metadata, plan mappings)
// onto a known plan, falling back to free.
func Normalize(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanPro):
		return PlanPro
	case string(PlanEnterprise):
		return PlanEnterprise
	default:
		return PlanFree
	}
}

// Rank orders plans so reconciliation can pick the best one when multiple
// signals disagree.
func Rank(plan Plan) int {
	switch plan {
	case PlanEnterprise:
		return 2
	case PlanPro:
		return 1
	default:
		return 0
	}
}

// Features returns the coarse feature switches per plan consumed by the
// account UI and API limits.
func Features(plan Plan) (apiAccess, prioritySupport bool) {
	switch plan {
	case PlanEnterprise:
		return true, true
	case PlanPro:
		return true, false
	default:
		return false, false
	}
}
