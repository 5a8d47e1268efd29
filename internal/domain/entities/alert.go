package entities

import (
	"time"
)

// Alert subject kinds. Token rules reference a token unit, collection
// rules a collection policy id. Both variants share one shape.
const (
	AlertKindToken      = "token"
	AlertKindCollection = "collection"
)

// AlertRule describes one threshold-crossing alert against a feed
// subject. Fire-once rules delete themselves after their first
// successful trigger; all rules cascade when their subject is removed.
type AlertRule struct {
	ID        int64   `db:"id" json:"id"`
	Kind      string  `db:"kind" json:"kind"`
	Subject   string  `db:"subject" json:"subject"`
	Threshold float64 `db:"threshold" json:"threshold"`

	// OnVolume selects volume-delta mode over price-crossing mode.
	OnVolume bool `db:"on_volume" json:"on_volume"`
	// CrossingOver selects crossing-over vs crossing-under in price mode.
	CrossingOver bool `db:"crossing_over" json:"crossing_over"`

	Enabled  bool `db:"enabled" json:"enabled"`
	FireOnce bool `db:"fire_once" json:"fire_once"`

	PushEnabled   bool `db:"push_enabled" json:"push_enabled"`
	DeviceEnabled bool `db:"device_enabled" json:"device_enabled"`
	MailEnabled   bool `db:"mail_enabled" json:"mail_enabled"`

	LastTriggeredAt *time.Time `db:"last_triggered_at" json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
