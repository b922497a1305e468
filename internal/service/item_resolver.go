package service

import (
	"context"
	"fmt"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolvedServiceItem is a catalog service validated and priced for an order.
// UnitPrice is the catalog price at resolution time; the order snapshots it.
type ResolvedServiceItem struct {
	ServiceID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ResolvedPartItem is a part validated and priced for an order. Stock is the
// level observed during resolution; the authoritative check happens inside the
// creation transaction.
type ResolvedPartItem struct {
	PartID    uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Stock     int
}

// ItemResolver validates requested service/part references and captures their
// current catalog prices. Order creation consumes the resolved lines so later
// catalog edits never alter existing orders.
type ItemResolver interface {
	Resolve(ctx context.Context, services []dto.OrderServiceItemRequest, parts []dto.OrderPartItemRequest) ([]ResolvedServiceItem, []ResolvedPartItem, error)
}

type itemResolver struct {
	catalogRepo repository.CatalogServiceRepository
	partRepo    repository.PartRepository
}

func NewItemResolver(catalogRepo repository.CatalogServiceRepository, partRepo repository.PartRepository) ItemResolver {
	return &itemResolver{catalogRepo: catalogRepo, partRepo: partRepo}
}

func (r *itemResolver) Resolve(ctx context.Context, services []dto.OrderServiceItemRequest, parts []dto.OrderPartItemRequest) ([]ResolvedServiceItem, []ResolvedPartItem, error) {
	resolvedServices := make([]ResolvedServiceItem, 0, len(services))
	for _, item := range services {
		if item.Quantity <= 0 {
			return nil, nil, apierror.Validation("quantidade deve ser maior que zero")
		}
		sid, err := uuid.Parse(item.ServiceID)
		if err != nil {
			return nil, nil, apierror.Validation(fmt.Sprintf("service_id inválido: %s", item.ServiceID))
		}
		svc, err := r.catalogRepo.FindByID(ctx, sid)
		if err != nil {
			return nil, nil, apierror.NotFound(fmt.Sprintf("serviço %s não encontrado", item.ServiceID))
		}
		if !svc.Active {
			return nil, nil, apierror.Validation(fmt.Sprintf("serviço %s está inativo", svc.Name))
		}
		resolvedServices = append(resolvedServices, ResolvedServiceItem{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Quantity:  item.Quantity,
			UnitPrice: svc.Price,
		})
	}

	resolvedParts := make([]ResolvedPartItem, 0, len(parts))
	for _, item := range parts {
		if item.Quantity <= 0 {
			return nil, nil, apierror.Validation("quantidade deve ser maior que zero")
		}
		pid, err := uuid.Parse(item.PartID)
		if err != nil {
			return nil, nil, apierror.Validation(fmt.Sprintf("part_id inválido: %s", item.PartID))
		}
		part, err := r.partRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, nil, apierror.NotFound(fmt.Sprintf("peça %s não encontrada", item.PartID))
		}
		if !part.Active {
			return nil, nil, apierror.Validation(fmt.Sprintf("peça %s está inativa", part.Name))
		}
		resolvedParts = append(resolvedParts, ResolvedPartItem{
			PartID:    part.ID,
			Name:      part.Name,
			Quantity:  item.Quantity,
			UnitPrice: part.Price,
			Stock:     part.Stock,
		})
	}

	return resolvedServices, resolvedParts, nil
}
