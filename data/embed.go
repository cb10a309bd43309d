// Package data embeds the MariaDB bootstrap DDL used by the container
// harness. The table definitions mirror GORM auto-migration output.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string
