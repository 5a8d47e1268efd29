package entities

import (
	"time"
)

// FeedItem is one ordered entry in the external display's feed queue.
// OrderIndex values are monotonic but carry no contiguity guarantee;
// rotation always walks the queue index-ascending. One-shot items are
// removed after their first display instead of cycling to the back.
type FeedItem struct {
	ID         int64     `db:"id" json:"id"`
	Subject    string    `db:"subject" json:"subject"`
	Kind       string    `db:"kind" json:"kind"`
	Text       string    `db:"text" json:"text"`
	Price      float64   `db:"price" json:"price"`
	Color      string    `db:"color" json:"color"`
	OneShot    bool      `db:"one_shot" json:"one_shot"`
	OrderIndex int64     `db:"order_index" json:"order_index"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
