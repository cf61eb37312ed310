package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates the admin action audit trail service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record writes one audit row. It runs after the audited transaction has
// committed, so a write failure is logged rather than surfaced.
func (s *auditService) Record(ctx context.Context, adminID, action, entity, entityID string, meta map[string]any) {
	record := domain.AuditRecord{
		AuditID:   uuid.NewString(),
		AdminID:   adminID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.CreateAuditRecord(ctx, record); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to write audit record",
			slog.String("action", action),
			slog.String("entity", entity),
			slog.String("entity_id", entityID),
			slog.Any("error", err))
	}
}

func (s *auditService) List(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	return s.auditRepo.ListAuditRecords(ctx, limit, nextToken)
}
