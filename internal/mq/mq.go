// Package mq publishes sighting events to a message broker so downstream
// consumers (feeds, notifiers) can react to new waypoints.
package mq

import (
	"context"
	"encoding/json"
	"time"
)

// Backend defines the broker-agnostic publish operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// SightingEvent describes one newly recorded waypoint.
type SightingEvent struct {
	WaypointID int       `json:"waypoint_id"`
	UserID     int       `json:"user_id"`
	AnimalID   int       `json:"animal_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Date       time.Time `json:"date"`
}

// Publisher wraps a backend with the sighting-event API.
type Publisher struct {
	backend Backend
	channel string
}

// NewPublisher constructs a Publisher for the provided backend and channel.
func NewPublisher(backend Backend, channel string) *Publisher {
	return &Publisher{backend: backend, channel: channel}
}

// PublishSighting sends a sighting-created event to the configured channel.
func (p *Publisher) PublishSighting(ctx context.Context, event SightingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.backend.Publish(ctx, p.channel, data, map[string]string{
		"event": "sighting.created",
	})
	return err
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}
