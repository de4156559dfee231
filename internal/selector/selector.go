// Package selector implements the session selection dialog: a shopper picks a
// date, then a location, and only a fully resolved pair yields a price. Any
// upstream change throws downstream choices away so a stale price can never
// reach the cart.
package selector

import (
	apperrors "github.com/cartedge/coursecart/pkg/errors"

	"github.com/cartedge/coursecart/internal/domain"
)

// State names the progress of a selection dialog.
type State int

const (
	Unselected State = iota
	DateChosen
	LocationChosen
	PriceResolved
)

func (s State) String() string {
	switch s {
	case DateChosen:
		return "date_chosen"
	case LocationChosen:
		return "location_chosen"
	case PriceResolved:
		return "price_resolved"
	default:
		return "unselected"
	}
}

// Selection tracks one in-progress dialog against a single course.
type Selection struct {
	course     *domain.Course
	date       string
	locationID string
	resolved   *ResolvedSelection
}

// ResolvedSelection is a selection that reached a priced session. It carries
// everything needed to build a cart item.
type ResolvedSelection struct {
	CourseID        string `json:"course_id"`
	CourseTitle     string `json:"course_title"`
	SessionID       string `json:"session_id"`
	SessionDate     string `json:"session_date"`
	LocationID      string `json:"location_id"`
	LocationName    string `json:"location_name"`
	LocationAddress string `json:"location_address,omitempty"`
	UnitPrice       int64  `json:"unit_price"`
}

// CartItem converts the resolved selection into a cart item snapshot.
func (r ResolvedSelection) CartItem() domain.CartItem {
	return domain.CartItem{
		CourseID:        r.CourseID,
		SessionID:       r.SessionID,
		Title:           r.CourseTitle,
		SessionDate:     r.SessionDate,
		LocationID:      r.LocationID,
		LocationName:    r.LocationName,
		LocationAddress: r.LocationAddress,
		UnitPrice:       r.UnitPrice,
		Quantity:        1,
	}
}

// New starts a selection dialog for a course.
func New(course *domain.Course) *Selection {
	return &Selection{course: course}
}

// State returns the dialog's current state.
func (s *Selection) State() State {
	switch {
	case s.resolved != nil:
		return PriceResolved
	case s.locationID != "":
		return LocationChosen
	case s.date != "":
		return DateChosen
	default:
		return Unselected
	}
}

// Resolved returns the resolved selection, or nil before PriceResolved.
func (s *Selection) Resolved() *ResolvedSelection {
	return s.resolved
}

// ChooseDate picks a session date. Choosing a date, including re-choosing the
// current one, discards any location and price already derived from it.
func (s *Selection) ChooseDate(date string) error {
	s.locationID = ""
	s.resolved = nil
	s.date = ""

	for _, d := range s.course.SessionDates() {
		if d == date {
			s.date = date
			return nil
		}
	}
	return apperrors.SelectionIncomplete("no session on the chosen date")
}

// ChooseLocation picks a location for the chosen date and attempts to resolve
// the price. A location change always re-derives the price from scratch.
func (s *Selection) ChooseLocation(locationID string) error {
	s.locationID = ""
	s.resolved = nil

	if s.date == "" {
		return apperrors.SelectionIncomplete("choose a date first")
	}

	session := s.course.SessionOn(s.date, locationID)
	if session == nil {
		return apperrors.SelectionIncomplete("no session at the chosen location on this date")
	}
	s.locationID = locationID

	if session.Price == nil {
		return apperrors.SelectionIncomplete("session has no price")
	}

	s.resolved = resolvedFrom(s.course, session)
	return nil
}

// Resolve performs the whole chain in one pure call: find the session, default
// the location when the caller names none, and require a price. It never
// fabricates a price and returns SelectionIncomplete at the first gap.
func Resolve(course *domain.Course, sessionID, locationID string) (*ResolvedSelection, error) {
	if course == nil || len(course.Sessions) == 0 {
		return nil, apperrors.SelectionIncomplete("course has no sessions")
	}

	session := course.SessionByID(sessionID)
	if session == nil {
		return nil, apperrors.SelectionIncomplete("unknown session")
	}

	if locationID == "" {
		// Default to the first location offered on the session's date.
		locations := course.LocationsOn(session.Date)
		if len(locations) == 0 {
			return nil, apperrors.SelectionIncomplete("session has no location")
		}
		locationID = locations[0].ID
	}

	matched := course.SessionOn(session.Date, locationID)
	if matched == nil {
		return nil, apperrors.SelectionIncomplete("no session at the chosen location on this date")
	}

	if matched.Price == nil {
		return nil, apperrors.SelectionIncomplete("session has no price")
	}

	return resolvedFrom(course, matched), nil
}

func resolvedFrom(course *domain.Course, session *domain.Session) *ResolvedSelection {
	return &ResolvedSelection{
		CourseID:        course.ID,
		CourseTitle:     course.Title,
		SessionID:       session.ID,
		SessionDate:     session.Date,
		LocationID:      session.Location.ID,
		LocationName:    session.Location.Name,
		LocationAddress: session.Location.Address,
		UnitPrice:       *session.Price,
	}
}
