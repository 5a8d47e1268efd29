package entities

import (
	"time"
)

// StatSnapshot is one immutable, append-only sample of market stats
// for a subject (a token unit or a collection policy id). Snapshots
// are never mutated after insert; evaluation reads them newest-first.
type StatSnapshot struct {
	ID        int64     `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"subject"`
	Price     float64   `db:"price" json:"price"`
	Volume    float64   `db:"volume" json:"volume"`
	Listings  int64     `db:"listings" json:"listings"`
	Owners    int64     `db:"owners" json:"owners"`
	Supply    int64     `db:"supply" json:"supply"`
	TopOffer  float64   `db:"top_offer" json:"top_offer"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
