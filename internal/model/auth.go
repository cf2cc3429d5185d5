package model

type LoginRequest struct {
	Username string `json:"username"`
	Pass     string `json:"pass"`
}

type LoginResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	SessionID     string `json:"sessionId"`
	HasLiveAccess bool   `json:"hasLiveAccess"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Pass     string `json:"pass"`
}

type HeartbeatRequest struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

type HeartbeatResponse struct {
	Status string `json:"status"`
}

type LogoutRequest struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

type UserStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type UserDeleteRequest struct {
	ID string `json:"id"`
}
