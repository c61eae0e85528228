package oidc

import (
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// idFields is the provider-neutral subset of claims the storefront keeps.
type idFields struct {
	userID      string
	displayName string
	email       string
	givenName   string
	familyName  string
	groups      []string
}

// mapClaims reads standard OIDC claims and evaluates nameExpr for the display name.
// When the expression yields nothing, given_name + family_name is used.
func mapClaims(claims map[string]any, nameExpr string) idFields {
	f := idFields{
		userID:     stringClaim(claims, "sub"),
		email:      stringClaim(claims, "email"),
		givenName:  stringClaim(claims, "given_name"),
		familyName: stringClaim(claims, "family_name"),
		groups:     stringSliceClaim(claims, "groups"),
	}
	f.displayName = evalDisplayName(nameExpr, claims)
	if f.displayName == "" {
		f.displayName = strings.TrimSpace(f.givenName + " " + f.familyName)
	}
	return f
}

// fillMissing copies fields from src that are empty in f.
func fillMissing(f *idFields, src idFields) {
	if f.userID == "" {
		f.userID = src.userID
	}
	if f.displayName == "" {
		f.displayName = src.displayName
	}
	if f.email == "" {
		f.email = src.email
	}
	if f.givenName == "" {
		f.givenName = src.givenName
	}
	if f.familyName == "" {
		f.familyName = src.familyName
	}
	if len(f.groups) == 0 {
		f.groups = src.groups
	}
}

// evalDisplayName returns the trimmed string result of expr, or "" when the
// expression fails or yields a non-string.
func evalDisplayName(expr string, claims map[string]any) string {
	if expr == "" || len(claims) == 0 {
		return ""
	}
	out, err := jmespath.Search(expr, claims)
	if err != nil {
		return ""
	}
	s, ok := out.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}

func stringSliceClaim(claims map[string]any, key string) []string {
	switch v := claims[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
