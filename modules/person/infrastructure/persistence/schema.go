package persistence

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed schema/postgres/*.sql schema/mysql/*.sql
var schemaFiles embed.FS

// SchemaFS returns the goose migrations for the given driver, rooted at the
// directory holding the .sql files.
func SchemaFS(driver string) (fs.FS, error) {
	switch driver {
	case "postgres", "mysql":
		return fs.Sub(schemaFiles, "schema/"+driver)
	default:
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
}
