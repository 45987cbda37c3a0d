// migrations хранит SQL-миграции схемы для goose, по каталогу на диалект.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
