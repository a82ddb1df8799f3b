package services

import (
	"context"
	"sort"
	"time"

	"github.com/fluffle/apiserver/internal/apperr"
	"github.com/fluffle/apiserver/types"
)

const (
	// waypointLifetimeDays is how long a sighting stays active in the
	// owner's view before its remaining days clamp to zero.
	waypointLifetimeDays = 7

	// maxActiveWaypoints caps how many waypoints a user may hold. The cap
	// is checked at creation time against all of the user's waypoints,
	// expired included, since expiry never deletes rows.
	maxActiveWaypoints = 100

	// Approximate degrees per mile at mid-latitudes. Deliberately not
	// geodesically exact.
	milesPerLatitudeDegree  = 69.0
	milesPerLongitudeDegree = 54.6
)

// WaypointRepository defines persistence operations for waypoints.
type WaypointRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.OwnedWaypoint, error)
	Insert(ctx context.Context, wp types.Waypoint) (types.Waypoint, error)
	ListWithinBox(ctx context.Context, lat, lng, latDelta, lngDelta float64) ([]types.NearbyWaypoint, error)
}

// WaypointService encapsulates sighting creation, the owner's listing with
// remaining lifetime, and the nearby bounding-box search.
type WaypointService struct {
	repo WaypointRepository
	now  func() time.Time
}

func NewWaypointService(repo WaypointRepository) *WaypointService {
	return &WaypointService{repo: repo, now: time.Now}
}

// FetchUserWaypoints returns the authenticated user's waypoints annotated
// with days remaining, ordered ascending with storage order breaking ties.
func (s *WaypointService) FetchUserWaypoints(ctx context.Context, user *types.PublicUser) ([]types.UserWaypoint, error) {
	if user == nil || user.ID <= 0 {
		return nil, apperr.Auth("You must be logged in to use this function.")
	}

	owned, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	waypoints := make([]types.UserWaypoint, 0, len(owned))
	for _, wp := range owned {
		waypoints = append(waypoints, types.UserWaypoint{
			ID:            wp.ID,
			Animal:        wp.Animal,
			Location:      wp.Location,
			DaysRemaining: daysRemaining(wp.CreatedAt, now),
		})
	}
	sort.SliceStable(waypoints, func(i, j int) bool {
		return waypoints[i].DaysRemaining < waypoints[j].DaysRemaining
	})
	return waypoints, nil
}

// InsertWaypoint records a new sighting dated now for the authenticated
// user, enforcing the per-user cap.
func (s *WaypointService) InsertWaypoint(ctx context.Context, user *types.PublicUser, lat, lng float64, animalID int) (types.Waypoint, error) {
	if user == nil || user.ID <= 0 {
		return types.Waypoint{}, apperr.Auth("You must be logged in to use this function.")
	}
	if animalID <= 0 {
		return types.Waypoint{}, apperr.Validation("You must provide an animal id")
	}

	existing, err := s.FetchUserWaypoints(ctx, user)
	if err != nil {
		return types.Waypoint{}, err
	}
	if len(existing) >= maxActiveWaypoints {
		return types.Waypoint{}, apperr.Validation("You can only have 100 active waypoints at a time.")
	}

	return s.repo.Insert(ctx, types.Waypoint{
		UserID:    user.ID,
		AnimalID:  animalID,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: s.now(),
	})
}

// FetchNearby returns all waypoints, any owner, inside the bounding box
// derived from the center point and range in miles.
func (s *WaypointService) FetchNearby(ctx context.Context, lat, lng, rangeMiles float64) ([]types.NearbyWaypoint, error) {
	latDelta := rangeMiles / milesPerLatitudeDegree
	lngDelta := rangeMiles / milesPerLongitudeDegree
	return s.repo.ListWithinBox(ctx, lat, lng, latDelta, lngDelta)
}

// daysRemaining clamps the waypoint lifetime countdown at zero.
func daysRemaining(createdAt, now time.Time) int {
	elapsed := int(now.Sub(createdAt).Hours() / 24)
	remaining := waypointLifetimeDays - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
