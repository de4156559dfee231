package domain

// Location is a venue a course session runs at.
type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Session is one scheduled run of a course. Price is nil when the backend has
// not priced the session; such a session cannot be booked.
type Session struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	Location *Location `json:"location,omitempty"`
	Price    *int64    `json:"price,omitempty"`
}

// Selectable reports whether the session carries everything booking needs.
func (s Session) Selectable() bool {
	return s.Location != nil && s.Price != nil
}

// Course is a catalog entry owning zero or more sessions.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Sessions    []Session `json:"sessions"`
}

// SessionByID returns the session with the given id, or nil.
func (c *Course) SessionByID(sessionID string) *Session {
	for i := range c.Sessions {
		if c.Sessions[i].ID == sessionID {
			return &c.Sessions[i]
		}
	}
	return nil
}

// SessionDates returns the distinct dates across all sessions, in catalog
// order. The selection dialog offers these as the first choice.
func (c *Course) SessionDates() []string {
	seen := make(map[string]struct{}, len(c.Sessions))
	dates := make([]string, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	return dates
}

// LocationsOn returns the locations of sessions running on the given date, in
// catalog order. Sessions without a location are skipped.
func (c *Course) LocationsOn(date string) []Location {
	seen := make(map[string]struct{})
	var locations []Location
	for _, s := range c.Sessions {
		if s.Date != date || s.Location == nil {
			continue
		}
		if _, ok := seen[s.Location.ID]; ok {
			continue
		}
		seen[s.Location.ID] = struct{}{}
		locations = append(locations, *s.Location)
	}
	return locations
}

// SessionOn returns the session on the given date at the given location, or
// nil when no session matches both.
func (c *Course) SessionOn(date, locationID string) *Session {
	for i := range c.Sessions {
		s := &c.Sessions[i]
		if s.Date == date && s.Location != nil && s.Location.ID == locationID {
			return s
		}
	}
	return nil
}
