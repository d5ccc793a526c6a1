package service

import (
	"github.com/svthalia/concrexit-sub001/internal/adapter"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/models"
)

type Services struct {
	Registry       *Registry
	SyncEngine     *SyncEngine
	WebhookService WebhookService
}

func NewServices(client adapter.RemoteClient, storages *store.Storages, logger *logger.Logger) (*Services, error) {
	repo := storages.ResourceRepository

	registry, err := NewRegistry(DefaultResourceTypes(client, repo)...)
	if err != nil {
		return nil, err
	}

	return &Services{
		Registry:       registry,
		SyncEngine:     NewSyncEngine(registry, repo, logger),
		WebhookService: NewWebhookProcessor(registry, repo),
	}, nil
}

// DefaultResourceTypes returns the mirrored entities in synchronization
// order. Contacts, projects and ledger accounts come before the invoices
// referencing them.
func DefaultResourceTypes(client adapter.RemoteClient, repo store.ResourceRepository) []ResourceType {
	return []ResourceType{
		NewSynchronizableResourceType(models.ResourceTypeConfig{
			Kind:            models.KindContact,
			EntityName:      "Contact",
			APIPath:         "contacts",
			Envelope:        "contact",
			CanWrite:        true,
			CanDelete:       true,
			CanDoFullSync:   true,
			FetchBeforePush: true,
		}, StructMapper[models.Contact]{}, client, repo),

		NewResourceType(models.ResourceTypeConfig{
			Kind:          models.KindProject,
			EntityName:    "Project",
			APIPath:       "projects",
			Envelope:      "project",
			CanWrite:      true,
			CanDelete:     true,
			CanDoFullSync: true,
			Paginated:     true,
			ListParams:    map[string]string{"filter": "state:all"},
		}, StructMapper[models.Project]{}, client, repo),

		NewResourceType(models.ResourceTypeConfig{
			Kind:          models.KindLedgerAccount,
			EntityName:    "LedgerAccount",
			APIPath:       "ledger_accounts",
			CanDoFullSync: true,
		}, StructMapper[models.LedgerAccount]{}, client, repo),

		NewCompositeResourceType(models.ResourceTypeConfig{
			Kind:          models.KindSalesInvoice,
			BaseKind:      models.KindExternalDocument,
			EntityName:    "SalesInvoice",
			APIPath:       "sales_invoices",
			Envelope:      "sales_invoice",
			CanWrite:      true,
			CanDelete:     true,
			CanDoFullSync: true,
			ListParams:    map[string]string{"filter": "period:all"},
		}, models.DocumentLinesConfig{
			LineKind:           models.KindSalesInvoiceDetail,
			LineBaseKind:       models.KindDocumentLine,
			LinesKey:           "details",
			LinesAttributesKey: "details_attributes",
		}, StructMapper[models.SalesInvoice]{}, StructMapper[models.SalesInvoiceDetail]{}, client, repo),

		NewCompositeResourceType(models.ResourceTypeConfig{
			Kind:          models.KindRecurringSalesInvoice,
			BaseKind:      models.KindExternalDocument,
			EntityName:    "RecurringSalesInvoice",
			APIPath:       "recurring_sales_invoices",
			Envelope:      "recurring_sales_invoice",
			CanWrite:      true,
			CanDelete:     true,
			CanDoFullSync: true,
		}, models.DocumentLinesConfig{
			LineKind:           models.KindRecurringSalesInvoiceDetail,
			LineBaseKind:       models.KindDocumentLine,
			LinesKey:           "details",
			LinesAttributesKey: "details_attributes",
		}, StructMapper[models.RecurringSalesInvoice]{}, StructMapper[models.SalesInvoiceDetail]{}, client, repo),
	}
}
