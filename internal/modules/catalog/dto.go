package catalog

// Entities mirror the marketplace backend's wire shapes; this service never
// owns them.

type Guide struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Phone       string `json:"phone"`
	PricePerDay int64  `json:"price_per_day"`
	Mountain    string `json:"mountain,omitempty"`
}

type Porter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Phone       string `json:"phone"`
	PricePerDay int64  `json:"price_per_day"`
}

type OpenTrip struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Price       int64  `json:"price"`
	StartDate   string `json:"start_date,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

type Mountain struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Height   int    `json:"height,omitempty"`
	Location string `json:"location,omitempty"`
}

// Contact returns the best reachable contact string for a guide, preferring
// the explicit contact field over the phone number.
func (g Guide) BestContact() string {
	if g.Contact != "" {
		return g.Contact
	}
	return g.Phone
}

func (p Porter) BestContact() string {
	if p.Contact != "" {
		return p.Contact
	}
	return p.Phone
}
