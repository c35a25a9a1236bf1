package model

import "time"

// Counselor represents a staff member who follows up with medication-care
// users.  Assignment is simple first-active-match; there is no load
// balancing across counselors.
type Counselor struct {
    ID        string    `json:"id"`         // counselors.id
    Name      string    `json:"name"`       // counselors.name
    Phone     string    `json:"phone"`      // counselors.phone
    IsActive  bool      `json:"is_active"`  // counselors.is_active
    CreatedAt time.Time `json:"created_at"` // counselors.created_at
}

// Admin is an account allowed to call the admin API.  Only the bcrypt hash
// of the password is stored.
type Admin struct {
    ID           string    `json:"id"`         // admins.id
    Email        string    `json:"email"`      // admins.email (unique)
    PasswordHash string    `json:"-"`          // admins.password_hash (never serialized)
    CreatedAt    time.Time `json:"created_at"` // admins.created_at
}
