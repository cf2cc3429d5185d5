package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

type Account struct {
	ID              string     `json:"id"`
	FullName        string     `json:"fullName"`
	Username        string     `json:"username"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	PasswordHash    string     `json:"-"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	HasLiveAccess   bool       `json:"hasLiveAccess"`
	SessionID       *string    `json:"-"`
	LastHeartbeatAt *time.Time `json:"lastHeartbeatAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
