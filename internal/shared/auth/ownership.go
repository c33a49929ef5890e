package auth

import "scholarvalley-api/internal/shared/apperr"

// Rule describes how ownership of one resource type is enforced.
type Rule struct {
	// Resource names the entity in denial messages, e.g. "Applicant".
	Resource string
	// StaffRead lets manager and root through without owning the resource.
	StaffRead bool
	// HideDenied reports denials as not found so existence is not leaked.
	HideDenied bool
}

var (
	// ApplicantRead: clients reach only their own applicants, staff reach all.
	ApplicantRead = Rule{Resource: "Applicant", StaffRead: true}
	// ApplicantBundle requires literal ownership regardless of role.
	ApplicantBundle = Rule{Resource: "Applicant", HideDenied: true}
	// BundleAccess requires literal ownership regardless of role.
	BundleAccess = Rule{Resource: "Bundle", HideDenied: true}
)

// Authorize checks p against a resource owned by ownerID.
func Authorize(p Principal, ownerID int64, rule Rule) error {
	if p.UserID != 0 && p.UserID == ownerID {
		return nil
	}
	if rule.StaffRead && p.Role.Staff() {
		return nil
	}
	if rule.HideDenied {
		return apperr.NotFound(rule.Resource + " not found")
	}
	return apperr.Forbidden("Not allowed")
}
