package dto

import "github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"

type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Price       float64  `json:"price" validate:"gt=0"`
	Features    []string `json:"features" validate:"omitempty,dive,required"`
}

func (r *ProductRequest) Input() models.ProductInput {
	features := r.Features
	if features == nil {
		features = []string{}
	}
	return models.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Features:    features,
	}
}
