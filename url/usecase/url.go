package usecase

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	httpKit "github.com/Java-Project-IM/Url-shortener-be/kit/http"
	loggerKit "github.com/Java-Project-IM/Url-shortener-be/kit/logger"
	"github.com/Java-Project-IM/Url-shortener-be/kit/mq"
	utilKit "github.com/Java-Project-IM/Url-shortener-be/kit/util"
)

const clickEventHistoryLimit = 50

type urlService struct {
	repo      domain.URLRepo
	cache     domain.ShortURLCache
	clickMQ   mq.MQTopic
	logger    *loggerKit.Logger
	allocator *shortCodeAllocator
	nowFunc   func() time.Time
}

var _ domain.URLService = (*urlService)(nil)

func CreateURLService(repo domain.URLRepo, cache domain.ShortURLCache, clickMQ mq.MQTopic, logger *loggerKit.Logger) (*urlService, error) {
	if repo == nil || cache == nil || clickMQ == nil || logger == nil {
		return nil, errors.New("create url service failed")
	}

	u := &urlService{
		repo:      repo,
		cache:     cache,
		clickMQ:   clickMQ,
		logger:    logger,
		allocator: createShortCodeAllocator(repo),
		nowFunc:   time.Now,
	}

	clickMQ.Subscribe(domain.ClickEventTopic, u.consumeClickEvent, mq.AddErrorHandler(func(err error) {
		logger.Error("consume click event failed", loggerKit.Error(err))
	}))

	return u, nil
}

// Save creates a short url for the given target. Creation is idempotent per
// target url: a repeated request returns the record the first one created.
func (u *urlService) Save(ctx context.Context, request domain.SaveURLRequest) (*domain.ShortURL, error) {
	now := u.nowFunc()

	originalURL, err := validateURL(request.OriginalURL)
	if err != nil {
		return nil, err
	}
	if request.ExpiresAt != nil && request.ExpiresAt.Before(now) {
		return nil, errors.Wrap(domain.ErrInvalidURL, "expiry is in the past")
	}

	existing, err := u.repo.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNoData) {
		return nil, errors.Wrap(err, "find by original url failed")
	}

	shortCode, err := u.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	record := &domain.ShortURL{
		ID:          utilKit.GetSnowflakeIDInt64(),
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		Category:    request.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   request.ExpiresAt,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// lost a create race; the winner's record is canonical
			existing, findErr := u.repo.FindByOriginalURL(ctx, originalURL)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, errors.Wrap(err, "save url failed")
	}

	u.cacheRecord(record)

	return record, nil
}

// Get resolves a short code to its target url. Cache hits record the click
// through the mq without blocking the redirect; misses read the canonical
// record, account the click synchronously, and backfill the cache.
func (u *urlService) Get(ctx context.Context, shortCode string) (string, error) {
	if targetURL, ok := u.cache.Get(shortCode); ok {
		u.produceClickEvent(ctx, shortCode)
		return targetURL, nil
	}

	record, err := u.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			return "", errors.Wrap(domain.ErrNoData, "short url not found")
		}
		return "", errors.Wrap(err, "find by short code failed")
	}

	if record.IsExpired(u.nowFunc()) {
		// expiry is decided on the canonical record only; drop any stale
		// cache entry so it cannot shadow the refusal
		u.cache.Delete(shortCode)
		return "", errors.Wrap(domain.ErrExpired, "short url expired")
	}

	if err := u.repo.IncrementClicks(ctx, shortCode, u.newClickEvent(ctx, shortCode)); err != nil {
		return "", errors.Wrap(err, "increment clicks failed")
	}

	u.cacheRecord(record)

	return record.OriginalURL, nil
}

func (u *urlService) GetStats(ctx context.Context, shortCode string) (*domain.ShortURL, []*domain.ClickEvent, error) {
	record, err := u.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			return nil, nil, errors.Wrap(domain.ErrNoData, "short url not found")
		}
		return nil, nil, errors.Wrap(err, "find by short code failed")
	}

	clickEvents, err := u.repo.GetClickEvents(ctx, shortCode, clickEventHistoryLimit)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get click events failed")
	}

	return record, clickEvents, nil
}

func (u *urlService) Delete(ctx context.Context, shortCode string) error {
	removed, err := u.repo.Delete(ctx, shortCode)
	if err != nil {
		return errors.Wrap(err, "delete short url failed")
	}
	if !removed {
		return errors.Wrap(domain.ErrNoData, "short url not found")
	}

	u.cache.Delete(shortCode)

	return nil
}

// cacheRecord populates the cache with the record's mapping. Records with an
// expiry are never cached: cache entries carry no expiry field, and expiry
// must always be decided on the canonical record.
func (u *urlService) cacheRecord(record *domain.ShortURL) {
	if record.ExpiresAt != nil {
		return
	}
	u.cache.Set(record.ShortCode, record.OriginalURL)
}

func (u *urlService) newClickEvent(ctx context.Context, shortCode string) *domain.ClickEvent {
	return &domain.ClickEvent{
		ID:        utilKit.GetSnowflakeIDInt64(),
		ShortCode: shortCode,
		ClickedAt: u.nowFunc(),
		IP:        httpKit.GetIP(ctx),
		Referrer:  httpKit.GetReferrer(ctx),
	}
}

// produceClickEvent is fire and forget: the redirect response never waits on
// click accounting, and failures are only logged.
func (u *urlService) produceClickEvent(ctx context.Context, shortCode string) {
	event := u.newClickEvent(ctx, shortCode)

	go func() {
		if err := u.clickMQ.Produce(context.Background(), &domain.ClickEventMessage{ClickEvent: *event}); err != nil {
			u.logger.Error("produce click event failed", loggerKit.Error(err))
		}
	}()
}

func (u *urlService) consumeClickEvent(message []byte) error {
	var event domain.ClickEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return errors.Wrap(err, "unmarshal click event failed")
	}

	if err := u.repo.IncrementClicks(context.Background(), event.ShortCode, &event); err != nil {
		return errors.Wrap(err, "increment clicks failed")
	}

	return nil
}

func validateURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(domain.ErrInvalidURL, "parse url failed")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Wrap(domain.ErrInvalidURL, "scheme must be http or https")
	}
	if parsed.Host == "" {
		return "", errors.Wrap(domain.ErrInvalidURL, "host is required")
	}
	return parsed.String(), nil
}
