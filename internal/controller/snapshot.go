package controller

import (
	"github.com/korzewarrior/smartkart/internal/cart"
	"github.com/korzewarrior/smartkart/internal/product"
)

// Snapshot is the cheap consistent read the polling UI layer consumes. Every
// action's effect is observable here on the next poll.
type Snapshot struct {
	Mode        string          `json:"mode"`
	LookingUp   bool            `json:"looking_up"`
	LastScanned *product.Record `json:"last_scanned,omitempty"`
	CartSize    int             `json:"cart_size"`
	CartCursor  int             `json:"cart_cursor"`
	CartCurrent *cart.Entry     `json:"cart_current,omitempty"`
	Activity    []string        `json:"activity"`
}
