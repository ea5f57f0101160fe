package models

// ShareSettings describes the visibility of a user's journey. Slugs are
// server-issued opaque tokens; an empty slug means no link exists yet.
type ShareSettings struct {
	PublicEnabled bool
	PublicSlug    string
	PrivateSlug   string
}

// SharedJourney is a read-only view of somebody's trips, fetched either by
// public username or by private token.
type SharedJourney struct {
	Username string `json:"username"`
	Trips    []Trip `json:"trips"`
}
