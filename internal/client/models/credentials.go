package models

// Credentials holds the opaque access/refresh token pair issued at login or
// registration. A refresh replaces the access token; logout destroys both.
type Credentials struct {
	Access  string
	Refresh string
}
