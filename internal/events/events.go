// Package events fans learner-data changes out to other services.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type Type string

const (
	ProfileCreated  Type = "profile.created"
	ProfileUpdated  Type = "profile.updated"
	ProfileDeleted  Type = "profile.deleted"
	SettingsUpdated Type = "settings.updated"
	SettingsReset   Type = "settings.reset"
	FavoriteAdded   Type = "favorite.added"
	FavoriteRemoved Type = "favorite.removed"
)

type Event struct {
	Type   Type           `json:"type"`
	UserID string         `json:"user_id"`
	At     time.Time      `json:"at"`
	Origin string         `json:"origin,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

func New(t Type, userID string, data map[string]any) Event {
	return Event{Type: t, UserID: userID, At: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

const (
	DriverNone     = "none"
	DriverRedis    = "redis"
	DriverRabbitMQ = "rabbitmq"
)

type Config struct {
	Driver       string
	RedisAddr    string
	RedisChannel string
	RabbitURI    string
	Exchange     string
	Origin       string
}

// NewPublisher picks the transport named by cfg.Driver.
func NewPublisher(cfg Config, log *logger.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return Nop{}, nil
	case DriverRedis:
		p, err := NewRedisPublisher(cfg, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverRabbitMQ:
		p, err := NewRabbitPublisher(cfg, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown EVENTS_DRIVER %q", cfg.Driver)
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
