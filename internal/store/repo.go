package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Purpose string    // exact purpose match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// CacheEntry is one value held by a Cache.
type CacheEntry struct {
	Key       string
	Value     json.RawMessage
	CreatedAt time.Time
}

// Cache is a local bounded key-value store. Entries are kept newest first;
// once more than the capacity exist the oldest are evicted. A separate
// latest slot holds the most recent Put.
type Cache interface {
	// Put stores value under key as the newest entry, replacing any entry
	// with the same key, then evicts beyond capacity.
	Put(ctx context.Context, key string, value json.RawMessage) error

	// Get returns the entry for key, or nil if absent.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// List returns all entries, newest first.
	List(ctx context.Context) ([]CacheEntry, error)

	// Latest returns the latest slot, or nil if empty.
	Latest(ctx context.Context) (*CacheEntry, error)

	// Clear removes every entry and the latest slot.
	Clear(ctx context.Context) error

	// Capacity returns the maximum number of listed entries.
	Capacity() int
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

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
