package migrations

import "embed"

// PostgresFS embeds the DDL for the source relations (orders, order_items,
// catalog lookups).
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the DDL for the derived and output relations.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
