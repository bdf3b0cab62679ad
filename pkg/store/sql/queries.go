package sql

const SelectResolutionByKey = "select-resolution-by-key"
const SelectResolutions = "select-resolutions"
const DeleteResolutionByKey = "delete-resolution-by-key"
const SelectKeyValue = "select-key-value"

var queries = map[string]map[string]string{
	"sqlite": {
		SelectResolutionByKey: `
SELECT id, key, env_name, status, created, result
FROM resolutions
WHERE key = ?
ORDER BY created DESC
LIMIT 1;
`,
		SelectResolutions: `
SELECT id, key, env_name, status, created, result
FROM resolutions
ORDER BY created DESC
LIMIT ?;
`,
		DeleteResolutionByKey: `
DELETE FROM resolutions
WHERE key = ?;
`,
		SelectKeyValue: `
SELECT id, key, value
FROM key_values
WHERE key = ?;
`,
	},
	"postgres": {
		SelectResolutionByKey: `
SELECT id, key, env_name, status, created, result
FROM resolutions
WHERE key = $1
ORDER BY created DESC
LIMIT 1;
`,
		SelectResolutions: `
SELECT id, key, env_name, status, created, result
FROM resolutions
ORDER BY created DESC
LIMIT $1;
`,
		DeleteResolutionByKey: `
DELETE FROM resolutions
WHERE key = $1;
`,
		SelectKeyValue: `
SELECT id, key, value
FROM key_values
WHERE key = $1;
`,
	},
}

// Stmt returns a query in the driver's placeholder dialect
func Stmt(driver string, name string) string {
	return queries[driver][name]
}
