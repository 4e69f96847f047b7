package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	// ShortCodeLength is the fixed length of generated short codes.
	ShortCodeLength = 7

	// ClickEventTopic is the mq topic short url click events are produced to.
	ClickEventTopic = "short-url-click-event"
)

// ShortURL is the canonical record for a shortened url. The persistence layer
// owns it; caches only ever hold the short code to original url projection.
type ShortURL struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	Clicks      int64      `json:"clicks"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (s *ShortURL) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

type ClickEvent struct {
	ID        int64     `json:"id"`
	ShortCode string    `json:"short_code"`
	ClickedAt time.Time `json:"clicked_at"`
	IP        string    `json:"ip,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}

// ClickEventMessage satisfies mq.Message so click events can be produced to a
// topic without the domain depending on the mq package.
type ClickEventMessage struct {
	ClickEvent
}

func (c *ClickEventMessage) GetKey() string {
	return c.ShortCode
}

func (c *ClickEventMessage) Marshal() ([]byte, error) {
	marshal, err := json.Marshal(c.ClickEvent)
	if err != nil {
		return nil, errors.Wrap(err, "marshal failed")
	}
	return marshal, nil
}

type SaveURLRequest struct {
	OriginalURL string
	Category    string
	ExpiresAt   *time.Time
}

type URLService interface {
	Save(ctx context.Context, request SaveURLRequest) (*ShortURL, error)
	Get(ctx context.Context, shortCode string) (string, error)
	GetStats(ctx context.Context, shortCode string) (*ShortURL, []*ClickEvent, error)
	Delete(ctx context.Context, shortCode string) error
}

type URLRepo interface {
	Create(ctx context.Context, url *ShortURL) error
	FindByShortCode(ctx context.Context, shortCode string) (*ShortURL, error)
	FindByOriginalURL(ctx context.Context, originalURL string) (*ShortURL, error)
	IncrementClicks(ctx context.Context, shortCode string, event *ClickEvent) error
	GetClickEvents(ctx context.Context, shortCode string, limit int) ([]*ClickEvent, error)
	Delete(ctx context.Context, shortCode string) (bool, error)
}

// ShortURLCache accelerates the redirect path. Absence means "unknown", not
// "does not exist"; existence is authoritative only in URLRepo.
type ShortURLCache interface {
	Set(shortCode, targetURL string)
	Get(shortCode string) (targetURL string, ok bool)
	Delete(shortCode string) bool
	Count() int
}

// RateLimit decides request admission per key. Implementations never treat
// missing state as an error; an unknown key has zero prior requests.
type RateLimit interface {
	Pass(ctx context.Context, key string) (pass bool, lastRequests, curExpiry int, err error)
}
