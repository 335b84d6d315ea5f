package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/models"
)

type ProductInput struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"minStock"`
	Image    string          `json:"image"`
}

func (in ProductInput) validate() error {
	verr := &errs.ValidationError{Violations: map[string]string{}}
	if strings.TrimSpace(in.Name) == "" {
		verr.Violations["name"] = "required"
	}
	if in.Price.IsNegative() {
		verr.Violations["price"] = "must_not_be_negative"
	}
	if in.Stock < 0 {
		verr.Violations["stock"] = "must_not_be_negative"
	}
	if len(verr.Violations) > 0 {
		verr.Msg = "validation_failed"
		return verr
	}
	return nil
}

// ProductService is plain menu inventory CRUD. Products are the only entity
// the API allows deleting; everything else keeps history.
type ProductService struct {
	products *entity.Repo[models.Product]
}

func NewProductService(repos *Repos) *ProductService {
	return &ProductService{products: repos.Products}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput, by string) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product := models.Product{
		Name:     strings.TrimSpace(in.Name),
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
		MinStock: in.MinStock,
		Image:    in.Image,
	}
	if err := s.products.Create(ctx, &product, by); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, _, err := s.products.Get(ctx, id)
	return product, err
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput, by string) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, by, func(p *models.Product) error {
		p.Name = strings.TrimSpace(in.Name)
		p.Category = in.Category
		p.Price = in.Price
		p.Stock = in.Stock
		p.MinStock = in.MinStock
		p.Image = in.Image
		return nil
	})
}

// Delete is idempotent; removing an absent product is not an error.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

// LowStock returns products at or below their minimum stock level.
func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0)
	for _, p := range all {
		if p.Stock <= p.MinStock {
			out = append(out, p)
		}
	}
	return out, nil
}

// TableService tracks the floor plan: table numbers, capacity, occupancy.
type TableService struct {
	tables *entity.Repo[models.Table]
}

func NewTableService(repos *Repos) *TableService {
	return &TableService{tables: repos.Tables}
}

func (s *TableService) Create(ctx context.Context, table models.Table, by string) (*models.Table, error) {
	if strings.TrimSpace(table.Number) == "" {
		return nil, errs.Invalid("number", "required")
	}
	if table.Status == "" {
		table.Status = models.TableAvailable
	}
	if err := s.tables.Create(ctx, &table, by); err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	return s.tables.List(ctx)
}

// SetStatus moves a table between available, occupied and reserved.
func (s *TableService) SetStatus(ctx context.Context, id string, status models.TableStatus, waiter, by string) (*models.Table, error) {
	switch status {
	case models.TableAvailable, models.TableOccupied, models.TableReserved:
	default:
		return nil, errs.Invalid("status", "unknown")
	}
	return s.tables.Update(ctx, id, by, func(tbl *models.Table) error {
		tbl.Status = status
		if status == models.TableAvailable {
			tbl.Waiter = ""
		} else if waiter != "" {
			tbl.Waiter = waiter
		}
		return nil
	})
}
