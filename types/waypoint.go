package types

import "time"

// Waypoint represents a single recorded animal sighting.
// Waypoints are created once and never mutated.
type Waypoint struct {
	// ID is the unique identifier of the waypoint.
	ID int `json:"id" db:"id"`

	// UserID identifies the user who recorded the sighting.
	UserID int `json:"user_id" db:"user_id"`

	// AnimalID identifies the sighted animal type.
	AnimalID int `json:"animal_id" db:"animal_id"`

	// Latitude and Longitude locate the sighting on the map.
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`

	// CreatedAt is the date the sighting was recorded. Waypoint expiry is
	// derived from it lazily at read time.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AnimalRef is the nested animal object embedded in waypoint views.
type AnimalRef struct {
	Name string `json:"Name"`
	Icon string `json:"Icon"`
}

// Location is the nested coordinate object embedded in waypoint views.
type Location struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

// OwnedWaypoint is a waypoint joined with its animal, as read back for the
// owning user. CreatedAt stays server-side; the client sees DaysRemaining.
type OwnedWaypoint struct {
	ID        int
	Animal    AnimalRef
	Location  Location
	CreatedAt time.Time
}

// UserWaypoint is the client view of one of the user's own waypoints,
// annotated with the days left before the sighting expires.
type UserWaypoint struct {
	ID            int       `json:"Id"`
	Animal        AnimalRef `json:"Animal"`
	Location      Location  `json:"Location"`
	DaysRemaining int       `json:"DaysRemaining"`
}

// NearbyWaypoint is the client view of a waypoint returned by the
// bounding-box search, joined with the owning username and animal.
type NearbyWaypoint struct {
	User     string    `json:"User"`
	Animal   AnimalRef `json:"Animal"`
	Location Location  `json:"Location"`
	Date     time.Time `json:"Date"`
}
