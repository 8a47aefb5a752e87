package domain

// MenuItem is the shape shared by the general menu and personalised recommendations.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// Viewer is the already-authenticated identity handed over by the gateway.
type Viewer struct {
	UserID        string
	Authenticated bool
}
