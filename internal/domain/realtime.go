package domain

import "encoding/json"

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	// ChangeResync tells subscribers that events may have been lost and local copies
	// must be refetched. It is never decoded from a database payload.
	ChangeResync ChangeType = "RESYNC"
)

// ChangeEvent is one row change published by the database.
type ChangeEvent struct {
	Table   string          `json:"table"`
	Type    ChangeType      `json:"type"`
	StoreID string          `json:"store_id"`
	Old     json.RawMessage `json:"old,omitempty"`
	New     json.RawMessage `json:"new,omitempty"`
}

// ResyncEvent is delivered to every subscriber regardless of its filter.
func ResyncEvent() ChangeEvent {
	return ChangeEvent{Type: ChangeResync}
}

func (e ChangeEvent) IsResync() bool {
	return e.Type == ChangeResync
}

// ChangeSubscriber delivers change events filtered by table and store.
// An empty filter value matches everything. Resync events reach every subscriber. The returned func unsubscribes and closes the channel.
type ChangeSubscriber interface {
	Subscribe(table, storeID string) (<-chan ChangeEvent, func())
}
