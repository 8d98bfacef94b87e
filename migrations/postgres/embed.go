// Package migrations embeds the SQL schema files so deployments and
// integration tests apply the same DDL the service was written against.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
