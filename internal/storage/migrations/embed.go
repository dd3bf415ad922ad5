package migrations

import "embed"

// PostgresFS embeds the campaign and participation schema, applied in
// lexical filename order.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the append-only ledger_events schema.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
