package catalog

import (
	"context"

	"github.com/nguyentranbao-ct/product-search/internal/models"
)

// ProductSource supplies listings from a non-LLM catalog. Implementations
// must already return products satisfying the emitted-product invariants;
// they are merged ahead of provider results and win deduplication ties.
type ProductSource interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)
}

type emptySource struct{}

// NewEmptySource is the stand-in used until real marketplace integrations
// (Shopify, Amazon PA-API) land. It contributes nothing to the merge.
func NewEmptySource() ProductSource {
	return emptySource{}
}

func (emptySource) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return nil, nil
}
