package catalog

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/internal/repo/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSource struct {
	db *mongodb.DB
}

// NewMongoSource serves curated catalog listings from the products
// collection.
func NewMongoSource(db *mongodb.DB) ProductSource {
	return &mongoSource{db: db}
}

func (s *mongoSource) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	filter := bson.M{
		"name": primitive.Regex{Pattern: escapeRegex(query), Options: "i"},
	}

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := s.db.Database.Collection("products").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func escapeRegex(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, sp := range special {
			if r == sp {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}
