package types

// Animal is an immutable reference row describing a sightable animal type.
// The JSON field names match what the map client expects.
type Animal struct {
	// ID is the unique identifier of the animal type.
	ID int `json:"Id" db:"id"`

	// Name is the display name of the animal.
	Name string `json:"Name" db:"name"`

	// Icon is the asset reference for the animal's map marker. Depending
	// on deployment it is either a static asset path or an object-storage
	// key served through /fetchAnimalIcon.
	Icon string `json:"Icon" db:"icon"`
}

// SecurityQuestion is an immutable reference row holding one of the fixed
// challenge prompts used for password-reset identity verification.
type SecurityQuestion struct {
	ID       int    `json:"Id" db:"id"`
	Question string `json:"Question" db:"question"`
}
