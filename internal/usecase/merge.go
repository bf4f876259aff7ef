package usecase

import "github.com/nguyentranbao-ct/product-search/internal/models"

// mergeProducts concatenates the sources in order and drops later duplicates
// by exact name match. Products with identical names but different fields are
// deliberately treated as the same listing; the first source wins.
func mergeProducts(sources ...[]models.Product) []models.Product {
	total := 0
	for _, src := range sources {
		total += len(src)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]models.Product, 0, total)
	for _, src := range sources {
		for _, p := range src {
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}
