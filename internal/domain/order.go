package domain

// Order is the immutable snapshot the backend returns at checkout. The cart it
// was created from may change afterwards; the order never does.
type Order struct {
	ID         string     `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice int64      `json:"total_price"`
}

// CheckoutProfile is the purchaser information checkout requires. All fields
// must be present before any order call is made.
type CheckoutProfile struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,e164"`
}
