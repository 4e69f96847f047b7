package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	utilKit "github.com/Java-Project-IM/Url-shortener-be/kit/util"
)

// allocateAttempts bounds the uniqueness probe so a pathological collision
// storm cannot hold a request forever. With a 62^7 code space, exhausting the
// bound is astronomically unlikely.
const allocateAttempts = 5

type shortCodeAllocator struct {
	repo       domain.URLRepo
	codeLength int
}

func createShortCodeAllocator(repo domain.URLRepo) *shortCodeAllocator {
	return &shortCodeAllocator{
		repo:       repo,
		codeLength: domain.ShortCodeLength,
	}
}

// Allocate generates random fixed-length codes and probes persistence until
// one is free, up to allocateAttempts.
func (a *shortCodeAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		shortCode, err := utilKit.GetRandomBase62(a.codeLength)
		if err != nil {
			return "", errors.Wrap(err, "generate short code failed")
		}

		_, err = a.repo.FindByShortCode(ctx, shortCode)
		if errors.Is(err, domain.ErrNoData) {
			return shortCode, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "probe short code failed")
		}
		// taken, probe another
	}
	return "", errors.Wrap(domain.ErrShortCodeExhausted, "allocate short code failed")
}
