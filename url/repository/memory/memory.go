package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
)

// urlRepo is an in-memory repository for tests and local development. It
// mirrors the persistence contract, including duplicate detection on short
// code and idempotent lookup by original url.
type urlRepo struct {
	lock        sync.RWMutex
	byShortCode map[string]*domain.ShortURL
	byURL       map[string]*domain.ShortURL
	clickEvents map[string][]*domain.ClickEvent
}

var _ domain.URLRepo = (*urlRepo)(nil)

func CreateURLRepo() domain.URLRepo {
	return &urlRepo{
		byShortCode: make(map[string]*domain.ShortURL),
		byURL:       make(map[string]*domain.ShortURL),
		clickEvents: make(map[string][]*domain.ClickEvent),
	}
}

func (r *urlRepo) Create(ctx context.Context, url *domain.ShortURL) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byShortCode[url.ShortCode]; ok {
		return errors.Wrap(domain.ErrDuplicate, "short code already exists")
	}

	clone := *url
	r.byShortCode[url.ShortCode] = &clone
	r.byURL[url.OriginalURL] = &clone

	return nil
}

func (r *urlRepo) FindByShortCode(ctx context.Context, shortCode string) (*domain.ShortURL, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	record, ok := r.byShortCode[shortCode]
	if !ok {
		return nil, errors.Wrap(domain.ErrNoData, "short code not found")
	}
	clone := *record
	return &clone, nil
}

func (r *urlRepo) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.ShortURL, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	record, ok := r.byURL[originalURL]
	if !ok {
		return nil, errors.Wrap(domain.ErrNoData, "original url not found")
	}
	clone := *record
	return &clone, nil
}

func (r *urlRepo) IncrementClicks(ctx context.Context, shortCode string, event *domain.ClickEvent) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	record, ok := r.byShortCode[shortCode]
	if !ok {
		return errors.Wrap(domain.ErrNoData, "short code not found")
	}

	record.Clicks++
	eventClone := *event
	r.clickEvents[shortCode] = append(r.clickEvents[shortCode], &eventClone)

	return nil
}

func (r *urlRepo) GetClickEvents(ctx context.Context, shortCode string, limit int) ([]*domain.ClickEvent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	events := r.clickEvents[shortCode]
	if len(events) > limit {
		events = events[len(events)-limit:]
	}

	clones := make([]*domain.ClickEvent, len(events))
	for i, event := range events {
		eventClone := *event
		clones[i] = &eventClone
	}
	return clones, nil
}

func (r *urlRepo) Delete(ctx context.Context, shortCode string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	record, ok := r.byShortCode[shortCode]
	if !ok {
		return false, nil
	}

	delete(r.byShortCode, shortCode)
	delete(r.byURL, record.OriginalURL)
	delete(r.clickEvents, shortCode)

	return true, nil
}
