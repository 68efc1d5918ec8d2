package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int    // max results (0 = unlimited)
	SessionKey string // restrict plan events to one session
	Action     string // restrict plan events to one action
	Purpose    string // restrict LLM events to one purpose
}

// SessionRepo persists one opaque session document per key.
// Save replaces the whole document in a single statement.
type SessionRepo interface {
	// Load returns the stored document, or nil if the key has none.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the document stored under key.
	Delete(ctx context.Context, key string) error
}

// Plan event actions.
const (
	ActionGenerate  = "generate"
	ActionToggle    = "toggle"
	ActionRebalance = "rebalance"
	ActionReset     = "reset"
	ActionImport    = "import"
)

// PlanEvent records one planner action.
type PlanEvent struct {
	ID             int
	Timestamp      time.Time
	SessionKey     string
	Action         string
	Detail         string
	CompletionRate float64
	LoadFactor     float64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM call.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to the event tables.
type EventRepo interface {
	// AppendPlanEvent records a planner action.
	AppendPlanEvent(ctx context.Context, e PlanEvent) error

	// QueryPlanEvents returns plan events, newest first.
	QueryPlanEvents(ctx context.Context, opts QueryOpts) ([]PlanEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
}
