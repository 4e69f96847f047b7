package usecase

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
)

type probeCountRepo struct {
	domain.URLRepo

	takenProbes int
	probes      int
	seen        []string
}

func (r *probeCountRepo) FindByShortCode(ctx context.Context, shortCode string) (*domain.ShortURL, error) {
	r.probes++
	r.seen = append(r.seen, shortCode)
	if r.probes <= r.takenProbes {
		return &domain.ShortURL{ShortCode: shortCode}, nil
	}
	return nil, errors.Wrap(domain.ErrNoData, "short code not found")
}

func TestShortCodeAllocator(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "test allocate free code first probe",
			fn: func(t *testing.T) {
				repo := &probeCountRepo{}
				allocator := createShortCodeAllocator(repo)

				shortCode, err := allocator.Allocate(ctx)
				assert.Nil(t, err)
				assert.Len(t, shortCode, domain.ShortCodeLength)
				assert.Equal(t, 1, repo.probes)
			},
		},
		{
			scenario: "test allocate retries taken codes",
			fn: func(t *testing.T) {
				repo := &probeCountRepo{takenProbes: 4}
				allocator := createShortCodeAllocator(repo)

				shortCode, err := allocator.Allocate(ctx)
				assert.Nil(t, err)
				assert.Len(t, shortCode, domain.ShortCodeLength)
				assert.Equal(t, 5, repo.probes)
				assert.Equal(t, repo.seen[len(repo.seen)-1], shortCode)
			},
		},
		{
			scenario: "test allocate exhausted when every probe is taken",
			fn: func(t *testing.T) {
				repo := &probeCountRepo{takenProbes: allocateAttempts}
				allocator := createShortCodeAllocator(repo)

				_, err := allocator.Allocate(ctx)
				assert.ErrorIs(t, err, domain.ErrShortCodeExhausted)
				assert.Equal(t, allocateAttempts, repo.probes)
			},
		},
		{
			scenario: "test allocate surfaces probe error",
			fn: func(t *testing.T) {
				repo := &probeErrorRepo{}
				allocator := createShortCodeAllocator(repo)

				_, err := allocator.Allocate(ctx)
				assert.ErrorContains(t, err, "probe short code failed")
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}

type probeErrorRepo struct {
	domain.URLRepo
}

func (r *probeErrorRepo) FindByShortCode(ctx context.Context, shortCode string) (*domain.ShortURL, error) {
	return nil, errors.New("connection reset")
}
