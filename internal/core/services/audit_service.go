package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/middleware"
)

// auditService writes audit entries fire-and-forget: a failed audit write is
// logged but never fails the ledger operation it describes.
type auditService struct {
	repo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{repo: repo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Log records a mutation asynchronously. The entry is detached from the
// caller's context so request cancellation cannot drop it mid-write.
func (s *auditService) Log(ctx context.Context, entityType, entityID, action string, changes any) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := json.Marshal(changes)
	if err != nil {
		logger.Warn("Failed to marshal audit changes", slog.String("entity_id", entityID), slog.String("error", err.Error()))
		payload = []byte("{}")
	}

	entry := domain.AuditLog{
		AuditID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    string(payload),
		CreatedAt:  time.Now().UTC(),
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveAuditLog(writeCtx, entry); err != nil {
			logger.Warn("Failed to save audit log entry",
				slog.String("entity_type", entityType),
				slog.String("entity_id", entityID),
				slog.String("action", action),
				slog.String("error", err.Error()),
			)
		}
	}()
}
