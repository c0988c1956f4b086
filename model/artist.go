package model

import "time"

// Artist represents a performing artist in the catalog. Rows are created
// lazily the first time a song references the name and are never updated
// or deleted by the ingestion path.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
