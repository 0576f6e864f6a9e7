package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"gorm.io/datatypes"
)

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req *dto.ProductRequest) (*models.Product, error) {
	in := req.Input()
	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Features:    datatypes.JSONSlice[string](in.Features),
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *dto.ProductRequest) (*models.Product, error) {
	return s.products.Update(ctx, id, req.Input())
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
