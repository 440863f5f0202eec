package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterOtelGorm registers the otelgorm plugin on a GORM DB instance.
// Query variables are never recorded in spans.
func RegisterOtelGorm(db *gorm.DB, enabled bool, logger *zap.Logger) error {
	if !enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	return db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("azalscore"),
		otelgorm.WithoutQueryVariables(),
	))
}
