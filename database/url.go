package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name.
// An empty name returns the base URL untouched; otherwise sslmode=disable
// is appended unless the URL already sets an sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(baseURL, "?")
	base = strings.TrimRight(base, "/")

	databaseURL := fmt.Sprintf("%s/%s", base, databaseName)
	if hasQuery {
		databaseURL = fmt.Sprintf("%s?%s", databaseURL, query)
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !hasQuery {
			separator = "?"
		}
		databaseURL = fmt.Sprintf("%s%ssslmode=disable", databaseURL, separator)
	}

	return databaseURL
}
