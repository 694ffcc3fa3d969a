package models

import "time"

// Event types
const (
	EventTypeOrderPlaced      = "ORDER_PLACED"
	EventTypeCatalogRefreshed = "CATALOG_REFRESHED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published when a checkout completes. It carries the
// full snapshot so the export worker needs no further lookups.
type OrderPlacedEvent struct {
	BaseEvent
	OrderRef string        `json:"order_ref"`
	Snapshot OrderSnapshot `json:"snapshot"`
}

// CatalogRefreshedEvent is published when a region's catalog is rebuilt.
type CatalogRefreshedEvent struct {
	BaseEvent
	RegionCode string `json:"region_code"`
	Source     string `json:"source"`
	Count      int    `json:"count"`
}
