package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	ormKit "github.com/Java-Project-IM/Url-shortener-be/kit/orm"
)

type urlEntity struct {
	domain.ShortURL
}

func (urlEntity) TableName() string {
	return "url"
}

type clickEventEntity struct {
	domain.ClickEvent
}

func (clickEventEntity) TableName() string {
	return "url_click"
}

type urlRepo struct {
	db *ormKit.DB
}

func CreateURLRepo(db *ormKit.DB) domain.URLRepo {
	return &urlRepo{
		db: db,
	}
}

func (r *urlRepo) Create(ctx context.Context, url *domain.ShortURL) error {
	entity := urlEntity{ShortURL: *url}
	if err := r.db.Create(&entity).Error; err != nil {
		if convertedErr, ok := ormKit.ConvertMySQLErr(err); ok {
			err = convertedErr
		}
		if errors.Is(err, ormKit.ErrDuplicatedKey) {
			return errors.Wrap(domain.ErrDuplicate, "short code or original url already exists")
		}
		return errors.Wrap(err, "create url failed")
	}
	return nil
}

func (r *urlRepo) FindByShortCode(ctx context.Context, shortCode string) (*domain.ShortURL, error) {
	var entity urlEntity
	if err := r.db.First(&entity, "short_code = ?", shortCode); err != nil {
		if errors.Is(err, ormKit.ErrRecordNotFound) {
			return nil, errors.Wrap(domain.ErrNoData, "short code not found")
		}
		return nil, errors.Wrap(err, "find by short code failed")
	}
	return &entity.ShortURL, nil
}

func (r *urlRepo) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.ShortURL, error) {
	var entity urlEntity
	if err := r.db.First(&entity, "original_url = ?", originalURL); err != nil {
		if errors.Is(err, ormKit.ErrRecordNotFound) {
			return nil, errors.Wrap(domain.ErrNoData, "original url not found")
		}
		return nil, errors.Wrap(err, "find by original url failed")
	}
	return &entity.ShortURL, nil
}

func (r *urlRepo) IncrementClicks(ctx context.Context, shortCode string, event *domain.ClickEvent) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		updateTx := tx.Model(&urlEntity{}).
			Where("short_code = ?", shortCode).
			Update("clicks", gorm.Expr("clicks + 1"))
		if updateTx.Error != nil {
			return errors.Wrap(updateTx.Error, "update clicks failed")
		}
		if updateTx.RowsAffected == 0 {
			return errors.Wrap(domain.ErrNoData, "short code not found")
		}

		entity := clickEventEntity{ClickEvent: *event}
		if err := tx.Create(&entity).Error; err != nil {
			return errors.Wrap(err, "create click event failed")
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "increment clicks transaction failed")
	}
	return nil
}

func (r *urlRepo) GetClickEvents(ctx context.Context, shortCode string, limit int) ([]*domain.ClickEvent, error) {
	var entities []clickEventEntity
	findTx := r.db.Where("short_code = ?", shortCode).
		Order("clicked_at desc").
		Limit(limit).
		Find(&entities)
	if findTx.Error != nil {
		return nil, errors.Wrap(findTx.Error, "get click events failed")
	}

	clickEvents := make([]*domain.ClickEvent, len(entities))
	for i := range entities {
		clickEvents[i] = &entities[i].ClickEvent
	}
	return clickEvents, nil
}

func (r *urlRepo) Delete(ctx context.Context, shortCode string) (bool, error) {
	var removed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		deleteTx := tx.Where("short_code = ?", shortCode).Delete(&urlEntity{})
		if deleteTx.Error != nil {
			return errors.Wrap(deleteTx.Error, "delete url failed")
		}
		removed = deleteTx.RowsAffected > 0

		if err := tx.Where("short_code = ?", shortCode).Delete(&clickEventEntity{}).Error; err != nil {
			return errors.Wrap(err, "delete click events failed")
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "delete transaction failed")
	}
	return removed, nil
}
