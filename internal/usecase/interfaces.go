package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/product-search/internal/models"
)

type SearchUsecase interface {
	// Search never fails on provider problems; it degrades to a shorter or
	// empty result. The only errors it returns are ErrEmptyQuery and
	// context cancellation from the caller.
	Search(ctx context.Context, query string) ([]models.Product, error)
}

type AnalyzeUsecase interface {
	Analyze(ctx context.Context, name, description string) (*models.AnalysisResult, error)
}

// ProductValidator filters provider candidates down to products satisfying
// the emitted-product invariants.
type ProductValidator interface {
	ValidateProducts(ctx context.Context, candidates []models.CandidateProduct) []models.Product
}
