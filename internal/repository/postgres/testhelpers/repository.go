package testhelpers

import (
	"github.com/deal-proximity/internal/domain/repository"
	"github.com/deal-proximity/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDealRepositoryForTest creates a deal repository with test database and logger
func NewDealRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.DealRepository {
	return postgres.NewDealRepository(postgres.NewDBForTest(db, logger))
}
