package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.Total Tests
// ============================================================================

func TestTotal_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{UnitPrice: 14900, Quantity: 2},
		},
	}
	assert.Equal(t, int64(29800), c.Total())
}

func TestTotal_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{UnitPrice: 10000, Quantity: 2},
			{UnitPrice: 5000, Quantity: 3},
			{UnitPrice: 25000, Quantity: 1},
		},
	}
	// 20000 + 15000 + 25000 = 60000
	assert.Equal(t, int64(60000), c.Total())
}

func TestTotal_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, int64(0), c.Total())
}

func TestTotal_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Total())
}

func TestTotal_ZeroQuantityDefaultsToOne(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{UnitPrice: 9900, Quantity: 0},
		},
	}
	assert.Equal(t, int64(9900), c.Total())
}

// ============================================================================
// Cart.ItemCount Tests
// ============================================================================

func TestItemCount_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 3},
			{Quantity: 1},
		},
	}
	assert.Equal(t, 6, c.ItemCount())
}

func TestItemCount_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, 0, c.ItemCount())
}

func TestItemCount_ZeroQuantityCountsAsOne(t *testing.T) {
	c := &Cart{
		Items: []CartItem{{Quantity: 0}},
	}
	assert.Equal(t, 1, c.ItemCount())
}

// ============================================================================
// Cart.FindItemIndex / FindItem Tests
// ============================================================================

func TestFindItemIndex_Found(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{CourseID: "course-1", SessionID: "sess-1"},
			{CourseID: "course-2", SessionID: "sess-2"},
		},
	}
	assert.Equal(t, 0, c.FindItemIndex("course-1", "sess-1"))
	assert.Equal(t, 1, c.FindItemIndex("course-2", "sess-2"))
}

func TestFindItemIndex_NotFound(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{CourseID: "course-1", SessionID: "sess-1"},
		},
	}
	assert.Equal(t, -1, c.FindItemIndex("course-999", "sess-999"))
}

func TestFindItemIndex_CourseMatchSessionMismatch(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{CourseID: "course-1", SessionID: "sess-1"},
		},
	}
	assert.Equal(t, -1, c.FindItemIndex("course-1", "sess-2"))
}

func TestFindItemIndex_SessionMatchCourseMismatch(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{CourseID: "course-1", SessionID: "sess-1"},
		},
	}
	assert.Equal(t, -1, c.FindItemIndex("course-2", "sess-1"))
}

func TestFindItem_ReturnsMatch(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{CourseID: "course-1", SessionID: "sess-1", Title: "Sourdough Basics"},
		},
	}

	item, ok := c.FindItem("course-1", "sess-1")
	assert.True(t, ok)
	assert.Equal(t, "Sourdough Basics", item.Title)
}

func TestFindItem_AbsentReturnsZeroValue(t *testing.T) {
	c := &Cart{}

	item, ok := c.FindItem("course-1", "sess-1")
	assert.False(t, ok)
	assert.Empty(t, item.CourseID)
}

// ============================================================================
// CartItem Tests
// ============================================================================

func TestSameIdentity(t *testing.T) {
	a := CartItem{CourseID: "course-1", SessionID: "sess-1", UnitPrice: 100}
	b := CartItem{CourseID: "course-1", SessionID: "sess-1", UnitPrice: 200}
	other := CartItem{CourseID: "course-1", SessionID: "sess-2"}

	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(other))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, (&Cart{}).IsEmpty())
	assert.False(t, (&Cart{Items: []CartItem{{CourseID: "c"}}}).IsEmpty())
}
