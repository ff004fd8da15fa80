package domain

import "time"

// LoginProfile is the minimal projection returned by a successful login.
type LoginProfile struct {
	ID        string
	FirstName string
	Email     string
}

// AccessToken is an issued bearer token. Only present when token auth is enabled.
type AccessToken struct {
	Token     string
	Subject   string
	Email     string
	ExpiresAt time.Time
}
