package analytics

import (
	"github.com/Kumitokiru/NowAlert/internal/history"
)

// Responder roles.
const (
	RoleBarangay = "barangay"
	RoleCDRRMO   = "cdrrmo"
	RolePNP      = "pnp"
	RoleBFP      = "bfp"
)

// KnownRole reports whether role names one of the four responder domains.
func KnownRole(role string) bool {
	switch role {
	case RoleBarangay, RoleCDRRMO, RolePNP, RoleBFP:
		return true
	}
	return false
}

// InDomain reports whether a record belongs to a responder domain: either
// it is tagged with the role, or it carries the domain's locality field
// (barangay for the Barangay domain, municipality for the agency
// domains). The OR-fallback lets records created through different entry
// points resolve to the right dashboard; a record tagged with both a
// barangay and a municipality shows up on both, which is the inherited
// product behavior.
func InDomain(r history.Record, role string) bool {
	if r.Role == role {
		return true
	}
	switch role {
	case RoleBarangay:
		return r.Barangay != ""
	case RoleCDRRMO, RolePNP, RoleBFP:
		return r.Municipality != ""
	}
	return false
}

// FilterDomain narrows records to one responder domain.
func FilterDomain(records []history.Record, role string) []history.Record {
	out := make([]history.Record, 0, len(records))
	for _, r := range records {
		if InDomain(r, role) {
			out = append(out, r)
		}
	}
	return out
}
