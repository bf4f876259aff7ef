package usecase

import (
	"testing"

	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/stretchr/testify/assert"
)

func named(id, name string) models.Product {
	return models.Product{ID: id, Name: name}
}

func TestMergeProducts(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []models.Product
		wantIDs []string
	}{
		{
			name:    "no duplicates keeps concatenation order",
			a:       []models.Product{named("a1", "Syrup"), named("a2", "Paddle")},
			b:       []models.Product{named("b1", "Toque")},
			wantIDs: []string{"a1", "a2", "b1"},
		},
		{
			name:    "duplicate in second source dropped",
			a:       []models.Product{named("a1", "Maple Syrup")},
			b:       []models.Product{named("b1", "Maple Syrup"), named("b2", "Toque")},
			wantIDs: []string{"a1", "b2"},
		},
		{
			name:    "duplicate within one source dropped",
			a:       []models.Product{named("a1", "Syrup"), named("a2", "Syrup")},
			wantIDs: []string{"a1"},
		},
		{
			name:    "dedup is case-sensitive",
			a:       []models.Product{named("a1", "Maple Syrup")},
			b:       []models.Product{named("b1", "maple syrup")},
			wantIDs: []string{"a1", "b1"},
		},
		{
			name:    "both empty",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeProducts(tt.a, tt.b)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
