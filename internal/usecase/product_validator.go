package usecase

import (
	"context"
	"net/url"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/internal/repo/urlcheck"
	"golang.org/x/sync/errgroup"
)

// imageExtensions is the allowlist the provider is instructed to respect.
// Anything else is treated as not-an-image regardless of what the host says.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

type productValidator struct {
	validate         *validator.Validate
	checker          urlcheck.Checker
	placeholderHosts []string
	checkImages      bool
}

// NewProductValidator builds the validator pipeline. Candidates are checked
// independently; a rejection never fails the batch.
func NewProductValidator(cfg *config.Config, checker urlcheck.Checker) ProductValidator {
	return &productValidator{
		validate:         validator.New(),
		checker:          checker,
		placeholderHosts: cfg.Search.PlaceholderHosts,
		checkImages:      cfg.Search.CheckImages,
	}
}

// ValidateProducts applies the rejection rules in order: required fields,
// non-empty image list, at least one well-formed non-placeholder image URL,
// then (optionally) reachability probes. Accepted products keep only the
// image URLs that passed, in their original order, and get a generated id
// when the provider omitted one.
func (v *productValidator) ValidateProducts(ctx context.Context, candidates []models.CandidateProduct) []models.Product {
	products := make([]models.Product, 0, len(candidates))
	for _, candidate := range candidates {
		product, ok := v.validateOne(ctx, candidate)
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products
}

func (v *productValidator) validateOne(ctx context.Context, c models.CandidateProduct) (models.Product, bool) {
	if err := v.validate.Struct(c); err != nil {
		log.Debugw(ctx, "candidate rejected by structural rules",
			"name", c.Name, "error", err.Error())
		return models.Product{}, false
	}

	images := v.filterImageFormat(c.Images)
	if len(images) == 0 {
		log.Debugw(ctx, "candidate rejected, no valid image", "name", c.Name)
		return models.Product{}, false
	}

	if v.checkImages {
		images = v.filterReachable(ctx, images)
		if len(images) == 0 {
			log.Debugw(ctx, "candidate rejected, no reachable image", "name", c.Name)
			return models.Product{}, false
		}
	}

	product := c.Product(images)
	if product.ID == "" {
		product.ID = "llm-" + uuid.NewString()
	}
	return product, true
}

// filterImageFormat keeps absolute http/https URLs with an image extension
// whose host is not a known placeholder-image service.
func (v *productValidator) filterImageFormat(images []string) []string {
	valid := make([]string, 0, len(images))
	for _, img := range images {
		if !v.isValidImageURL(img) {
			continue
		}
		valid = append(valid, img)
	}
	return valid
}

func (v *productValidator) isValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	if v.isPlaceholderHost(u.Hostname()) {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (v *productValidator) isPlaceholderHost(host string) bool {
	host = strings.ToLower(host)
	for _, ph := range v.placeholderHosts {
		if host == ph || strings.HasSuffix(host, "."+ph) {
			return true
		}
	}
	return false
}

// filterReachable probes all images in parallel and keeps the survivors in
// their original order. Each probe has its own short timeout, so the slowest
// candidate bounds this step, not the sum.
func (v *productValidator) filterReachable(ctx context.Context, images []string) []string {
	ok := make([]bool, len(images))
	g, probeCtx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			ok[i] = v.checker.ImageExists(probeCtx, img)
			return nil
		})
	}
	_ = g.Wait()

	reachable := make([]string, 0, len(images))
	for i, img := range images {
		if ok[i] {
			reachable = append(reachable, img)
		}
	}
	return reachable
}
