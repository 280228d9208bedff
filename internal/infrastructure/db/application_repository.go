package db

import (
	"context"

	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/domain"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type applicationRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepository(db *gorm.DB, log *logger.Logger) ports.ApplicationRepository {
	return &applicationRepository{db: db, log: log}
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		r.log.Warnw("application_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &app, nil
}
