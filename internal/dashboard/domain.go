package dashboard

import "time"

// Snapshot aggregates the operational counters shown on the tenant
// dashboard.
type Snapshot struct {
	Customers     int64     `json:"customers"`
	ActiveMembers int64     `json:"active_members"`
	OccupiedRooms int64     `json:"occupied_rooms"`
	OpenFolios    int64     `json:"open_folios"`
	GeneratedAt   time.Time `json:"generated_at"`
}
