package user

// User is an account that can sign in to the dashboard. Role is "admin" for
// the store-admin view and "user" for shoppers; it travels in the JWT claims
// for the frontend to branch on.
type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
