package logging

import "log/slog"

// WithComponent tags log lines with the subsystem that produced them.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithDatabase tags log lines with the database name and its catalog id.
func WithDatabase(name, id string) *slog.Logger {
	return GetLogger().With("db", name, "db_id", id)
}

func WithTable(tableName string) *slog.Logger {
	return GetLogger().With("table", tableName)
}

func WithIndex(indexName string) *slog.Logger {
	return GetLogger().With("index", indexName)
}

func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
