package auth

import (
	"context"
	"strings"
)

const (
	PermEmployeesRead  = "employees.read"
	PermEmployeesWrite = "employees.write"
	PermOrgRead        = "org.read"
	PermOrgWrite       = "org.write"
	PermCatalogRead    = "catalog.read"
	PermCatalogWrite   = "catalog.write"
	PermRecordsRead    = "records.read"
	PermRecordsWrite   = "records.write"
	PermDocumentsRead  = "documents.read"
	PermDocumentsWrite = "documents.write"
	PermReportsRead    = "reports.read"
	PermAuditRead      = "audit.read"
	PermSystemAdmin    = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOrgRead,
	PermOrgWrite,
	PermCatalogRead,
	PermCatalogWrite,
	PermRecordsRead,
	PermRecordsWrite,
	PermDocumentsRead,
	PermDocumentsWrite,
	PermReportsRead,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermOrgRead,
		PermCatalogRead,
		PermRecordsRead,
		PermDocumentsRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermOrgRead,
		PermCatalogRead,
		PermRecordsRead,
		PermRecordsWrite,
		PermDocumentsRead,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermCatalogRead,
		PermCatalogWrite,
		PermRecordsRead,
		PermRecordsWrite,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermReportsRead,
		PermAuditRead,
	},
	RoleAdmin: DefaultPermissions,
}

// StaticPermissions resolves permissions from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, roleName, permission string) (bool, error) {
	for _, perm := range RolePermissions[strings.ToUpper(roleName)] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
