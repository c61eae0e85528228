package authroles

import (
	domainauth "github.com/target/marketnest/internal/domain/auth"
)

// StaticRoleMapper maps provider groups by simple string membership rules.
// An empty CustomerGroup treats every signed-in shopper as a customer.
type StaticRoleMapper struct {
	AdminGroup    string
	CustomerGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	if m.CustomerGroup == "" {
		return domainauth.RoleCustomer
	}
	for _, g := range groups {
		if g == m.CustomerGroup {
			return domainauth.RoleCustomer
		}
	}
	return domainauth.RoleGuest
}
