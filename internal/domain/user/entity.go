package user

// User represents a user entity in the system.
type User struct {
	ID        int64  // ID is assigned by the store on insert and never changes
	FirstName string // FirstName is the given name of the user
	LastName  string // LastName is the family name of the user
	Email     string // Email is the contact address; neither format nor uniqueness is enforced
}

// Patch holds a partial update. A nil field is left unchanged; a non-nil
// field replaces the current value, including with the empty string.
type Patch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// Apply copies every set field of p onto u.
func (u *User) Apply(p Patch) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}
