package types

// Group is sent with its full target list, so an empty group is posted as
// "targets": [] rather than omitting the key.
type Group struct {
	ID      int64    `json:"id,omitempty"`
	Name    string   `json:"name"`
	Targets []Target `json:"targets"`
}

// GroupRef attaches an existing group to a campaign by name.
type GroupRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Target is a single recipient. GoPhish stores the organization in Position.
type Target struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Position  string `json:"position"`
}
