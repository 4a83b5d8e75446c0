package validation

import (
	"net/url"
	"strings"
)

// IsValidURL accepts http(s) URLs. Bare hosts without a scheme are rejected,
// matching the form rule in the admin UI.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// LocationTypes and RelationshipTypes enumerate the allowed classification
// values on a client account.
var LocationTypes = []string{"HEADQUARTERS", "BRANCH"}
var RelationshipTypes = []string{"PROSPECT", "CLIENT", "PARTNER", "AFFILIATE"}

func IsValidLocationType(s string) bool {
	return contains(LocationTypes, s)
}

func IsValidRelationshipType(s string) bool {
	return contains(RelationshipTypes, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
