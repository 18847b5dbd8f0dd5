// Package enrollment manages students, their annual registers, the
// administrative services they can request and the printable reports.
package enrollment

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
	"github.com/heartmarshall/scolary/internal/service/resource"
)

// Cache entity keys.
const (
	EntityStudents          = "students"
	EntityAnnualRegisters   = "annual_registers"
	EntityAvailableServices = "available_services"
	EntityServiceDocuments  = "service_documents"
)

// Endpoint definitions. Annual registers are embedded in student responses;
// service documents are the join table of available services.
var (
	StudentsDef = resource.Definition{Name: EntityStudents, Path: "/students/"}

	AnnualRegistersDef = resource.Definition{
		Name:        EntityAnnualRegisters,
		Path:        "/annual_registers/",
		Invalidates: []string{EntityStudents},
	}

	AvailableServicesDef = resource.Definition{Name: EntityAvailableServices, Path: "/available_services/"}

	ServiceDocumentsDef = resource.Definition{
		Name:        EntityServiceDocuments,
		Path:        "/service_documents/",
		Invalidates: []string{EntityAvailableServices},
	}
)

// api defines the HTTP client interface needed by enrollment services.
type api interface {
	Do(ctx context.Context, path string, req scolaryapi.Request, out any) error
	DoBlob(ctx context.Context, path string, req scolaryapi.Request) (*scolaryapi.Blob, error)
}

// Service bundles the enrollment resources.
type Service struct {
	log *slog.Logger
	api api

	Students          *resource.Service[domain.Student, domain.StudentPayload]
	AnnualRegisters   *resource.Service[domain.AnnualRegister, domain.AnnualRegisterPayload]
	AvailableServices *resource.Service[domain.AvailableService, domain.AvailableServicePayload]
	ServiceDocuments  *resource.Service[domain.ServiceDocument, domain.ServiceDocumentPayload]
}

// NewService creates the enrollment services.
func NewService(logger *slog.Logger, client api, cache *querycache.Cache) *Service {
	return &Service{
		log:               logger.With("service", "enrollment"),
		api:               client,
		Students:          resource.New[domain.Student, domain.StudentPayload](logger, client, cache, StudentsDef),
		AnnualRegisters:   resource.New[domain.AnnualRegister, domain.AnnualRegisterPayload](logger, client, cache, AnnualRegistersDef),
		AvailableServices: resource.New[domain.AvailableService, domain.AvailableServicePayload](logger, client, cache, AvailableServicesDef),
		ServiceDocuments:  resource.New[domain.ServiceDocument, domain.ServiceDocumentPayload](logger, client, cache, ServiceDocumentsDef),
	}
}
