package bootstrap

type tableDef struct {
	name string
	ddl  string
}

type columnDef struct {
	table string
	name  string
	ddl   string
}

// tables are created in order; tasks references users.
var tables = []tableDef{
	{
		name: "users",
		ddl: `
			CREATE TABLE users (
				id SERIAL PRIMARY KEY,
				username VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			)`,
	},
	{
		name: "tasks",
		ddl: `
			CREATE TABLE tasks (
				id SERIAL PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description TEXT,
				is_complete BOOLEAN DEFAULT FALSE,
				user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			)`,
	},
}

// columns are schema additions applied after the tables exist.
var columns = []columnDef{
	{
		table: "tasks",
		name:  "priority",
		ddl:   `ALTER TABLE tasks ADD COLUMN priority VARCHAR(20) DEFAULT 'medium'`,
	},
}

// Tables returns the managed table names in creation order.
func Tables() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names
}
