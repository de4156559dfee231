package domain

// CartItem is a single bookable course session placed in a cart. Identity is
// the (CourseID, SessionID) pair; everything else is a display snapshot taken
// at add time.
type CartItem struct {
	CourseID        string `json:"course_id"`
	SessionID       string `json:"session_id"`
	Title           string `json:"title"`
	SessionDate     string `json:"session_date"`
	LocationID      string `json:"location_id"`
	LocationName    string `json:"location_name"`
	LocationAddress string `json:"location_address,omitempty"`
	UnitPrice       int64  `json:"unit_price"`
	Quantity        int    `json:"quantity"`
}

// SameIdentity reports whether two items refer to the same course session.
func (i CartItem) SameIdentity(other CartItem) bool {
	return i.CourseID == other.CourseID && i.SessionID == other.SessionID
}

// Cart is an ordered collection of items for one shopper, guest or signed-in.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total calculates the total price of all items in the cart (in cents).
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += item.UnitPrice * int64(qty)
	}
	return total
}

// ItemCount returns the total number of seats booked across all items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		if item.Quantity <= 0 {
			count++
			continue
		}
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the item matching the given course and
// session IDs, or -1 when absent.
func (c *Cart) FindItemIndex(courseID, sessionID string) int {
	for i := range c.Items {
		if c.Items[i].CourseID == courseID && c.Items[i].SessionID == sessionID {
			return i
		}
	}
	return -1
}

// FindItem returns the matching item and whether it exists.
func (c *Cart) FindItem(courseID, sessionID string) (CartItem, bool) {
	if idx := c.FindItemIndex(courseID, sessionID); idx >= 0 {
		return c.Items[idx], true
	}
	return CartItem{}, false
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
