package sql

import "embed"

// Migrations holds the archive schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/list_runs.sql
var ListRuns string

//go:embed queries/select_stats.sql
var SelectStats string

//go:embed queries/delete_run.sql
var DeleteRun string

//go:embed queries/bootstrap_migrations.sql
var BootstrapMigrations string

//go:embed queries/applied_migrations.sql
var AppliedMigrations string

//go:embed queries/record_migration.sql
var RecordMigration string
