package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	sessionsTable    = "sessions"
	planEventsTable  = "plan_events"
	llmRequestsTable = "llm_request_events"
)

var (
	sessionColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "data", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	sessionsSchema = &schema.Table{
		Name:       sessionsTable,
		Columns:    sessionColumns,
		PrimaryKey: []*schema.Column{sessionColumns[0]},
	}

	planEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_key", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "detail", Type: field.TypeString, Default: ""},
		{Name: "completion_rate", Type: field.TypeFloat64, Default: 0},
		{Name: "load_factor", Type: field.TypeFloat64, Default: 1},
	}
	planEventsSchema = &schema.Table{
		Name:       planEventsTable,
		Columns:    planEventColumns,
		PrimaryKey: []*schema.Column{planEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "planevent_session_key_created_at", Columns: []*schema.Column{planEventColumns[2], planEventColumns[1]}},
		},
	}

	llmRequestColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestsSchema = &schema.Table{
		Name:       llmRequestsTable,
		Columns:    llmRequestColumns,
		PrimaryKey: []*schema.Column{llmRequestColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestColumns[4]}},
		},
	}

	tables = []*schema.Table{sessionsSchema, planEventsSchema, llmRequestsSchema}
)

// migrate creates missing tables and columns. It never drops anything.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
