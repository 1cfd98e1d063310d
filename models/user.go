package models

import "time"

// User is the public projection of an account plus its profile row.
// PasswordHash never leaves the server.
type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Avatar         string    `json:"avatar,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Website        string    `json:"website,omitempty"`
	Instagram      string    `json:"instagram,omitempty"`
	Youtube        string    `json:"youtube,omitempty"`
	Interests      []string  `json:"interests"`
	Subjects       []string  `json:"subjects"`
	RoleID         *int      `json:"roleId,omitempty"`
	IsVerified     bool      `json:"isVerified"`
	VerifiedReason string    `json:"verifiedReason,omitempty"`
	TotalEarnings  float64   `json:"totalEarnings"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserBrief is the display subset joined into lists (followers, uploader info).
type UserBrief struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"`
	Website   *string `json:"website"`
	Instagram *string `json:"instagram"`
	Youtube   *string `json:"youtube"`
}
