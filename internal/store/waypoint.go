package store

import (
	"context"
	"database/sql"

	"github.com/fluffle/apiserver/types"
)

// WaypointRepository handles persistence for waypoints.
type WaypointRepository struct {
	db *sql.DB
}

func NewWaypointRepository(db *sql.DB) *WaypointRepository {
	return &WaypointRepository{db: db}
}

// ListByUser returns every waypoint owned by the user, joined with its
// animal, in insertion order.
func (r *WaypointRepository) ListByUser(ctx context.Context, userID int) ([]types.OwnedWaypoint, error) {
	const query = `
		SELECT w.id, a.name, a.icon, w.latitude, w.longitude, w.created_at
		FROM waypoints w
		JOIN animals a ON a.id = w.animal_id
		WHERE w.user_id = $1
		ORDER BY w.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waypoints []types.OwnedWaypoint
	for rows.Next() {
		var wp types.OwnedWaypoint
		if err := rows.Scan(
			&wp.ID,
			&wp.Animal.Name,
			&wp.Animal.Icon,
			&wp.Location.Latitude,
			&wp.Location.Longitude,
			&wp.CreatedAt,
		); err != nil {
			return nil, err
		}
		waypoints = append(waypoints, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return waypoints, nil
}

// Insert records a new waypoint. A missing animal surfaces as a validation
// error via the foreign-key constraint.
func (r *WaypointRepository) Insert(ctx context.Context, wp types.Waypoint) (types.Waypoint, error) {
	const query = `
		INSERT INTO waypoints (user_id, animal_id, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		wp.UserID,
		wp.AnimalID,
		wp.Latitude,
		wp.Longitude,
		wp.CreatedAt,
	).Scan(&wp.ID); err != nil {
		return types.Waypoint{}, translateConstraint(err)
	}
	return wp, nil
}

// ListWithinBox returns all waypoints whose point falls within the given
// per-axis tolerances of the center, joined with owner and animal.
func (r *WaypointRepository) ListWithinBox(ctx context.Context, lat, lng, latDelta, lngDelta float64) ([]types.NearbyWaypoint, error) {
	const query = `
		SELECT u.username, a.name, a.icon, w.latitude, w.longitude, w.created_at
		FROM waypoints w
		JOIN animals a ON a.id = w.animal_id
		JOIN users u ON u.id = w.user_id
		WHERE abs(w.latitude - $1) <= $2
		  AND abs(w.longitude - $3) <= $4`
	rows, err := r.db.QueryContext(ctx, query, lat, latDelta, lng, lngDelta)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waypoints []types.NearbyWaypoint
	for rows.Next() {
		var wp types.NearbyWaypoint
		if err := rows.Scan(
			&wp.User,
			&wp.Animal.Name,
			&wp.Animal.Icon,
			&wp.Location.Latitude,
			&wp.Location.Longitude,
			&wp.Date,
		); err != nil {
			return nil, err
		}
		waypoints = append(waypoints, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return waypoints, nil
}
