package application

import "github.com/oksasatya/skinsync/internal/domain/entity"

// CatalogService exposes the closed category and routine sets.
type CatalogService struct{}

func NewCatalogService() *CatalogService { return &CatalogService{} }

func (CatalogService) Categories() []entity.Category { return entity.Categories() }

func (CatalogService) Routines() []entity.Routine { return entity.Routines() }
