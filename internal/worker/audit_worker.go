package worker

import (
	"github.com/spec-kit/admission-service/internal/service"
)

// StartAuditWorker registers lifecycle audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
