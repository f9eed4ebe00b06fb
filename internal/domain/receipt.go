package domain

import (
	"time"

	"github.com/google/uuid"
)

// Receipt records a completed (simulated) sale.
type Receipt struct {
	ID            uuid.UUID
	Items         []CartItem
	Total         Money
	ItemCount     int
	PhotoFilename string

	CreatedAt time.Time
}

func (r Receipt) HasPhoto() bool {
	return r.PhotoFilename != ""
}
