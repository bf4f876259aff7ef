package usecase

import (
	"context"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/kafka"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/internal/repo/catalog"
	"github.com/nguyentranbao-ct/product-search/internal/repo/llm"
	"github.com/nguyentranbao-ct/product-search/pkg/ctxval"
)

// deadlineMargin is reserved below the overall deadline for parsing,
// validation and merging, so the provider race can never consume it all.
const deadlineMargin = 2 * time.Second

type searchUsecase struct {
	provider  llm.Provider
	validator ProductValidator
	catalog   catalog.ProductSource
	events    kafka.Publisher
	config    *config.Config
}

func NewSearchUsecase(
	cfg *config.Config,
	provider llm.Provider,
	validator ProductValidator,
	source catalog.ProductSource,
	events kafka.Publisher,
) SearchUsecase {
	return &searchUsecase{
		provider:  provider,
		validator: validator,
		catalog:   source,
		events:    events,
		config:    cfg,
	}
}

// Search races the catalog source against the provider pipeline under one
// overall deadline, then merges and deduplicates. Provider trouble of any
// kind degrades to fewer results instead of an error.
func (u *searchUsecase) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.ErrEmptyQuery
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, u.config.Search.OverallTimeout)
	defer cancel()

	catalogCh := make(chan []models.Product, 1)
	go func() {
		products, err := u.catalog.SearchProducts(ctx, query, u.config.Search.MaxResults)
		if err != nil {
			log.Warnw(ctx, "catalog source failed, continuing without it", "error", err)
			products = nil
		}
		catalogCh <- products
	}()

	validated := u.searchProvider(ctx, query)

	var catalogProducts []models.Product
	select {
	case catalogProducts = <-catalogCh:
	case <-ctx.Done():
		// Catalog missed the overall deadline; serve what we have.
	}

	merged := mergeProducts(catalogProducts, validated)

	clientKey, _ := ctxval.ClientKey(ctx)
	u.events.SearchCompleted(ctx, kafka.SearchEvent{
		Query:      query,
		ClientKey:  clientKey,
		Results:    len(merged),
		DurationMs: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now(),
	})

	log.Infow(ctx, "search completed",
		"query", query,
		"catalog_results", len(catalogProducts),
		"provider_results", len(validated),
		"merged_results", len(merged),
		"duration_ms", time.Since(start).Milliseconds())
	return merged, nil
}

// searchProvider runs the provider call, parse and validation as a bounded
// retry loop. Each attempt re-checks the remaining overall deadline first, so
// retries cannot defeat the latency bound.
func (u *searchUsecase) searchProvider(ctx context.Context, query string) []models.Product {
	attempts := u.config.Search.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		raw := u.callProvider(ctx, query)
		candidates := llm.ExtractProducts(raw)
		products := u.validator.ValidateProducts(ctx, candidates)
		if len(products) > 0 {
			return products
		}

		log.Warnw(ctx, "no valid products from provider",
			"query", query,
			"attempt", attempt,
			"candidates", len(candidates))
	}
	return nil
}

// callProvider races one provider call against a timer set strictly below
// whatever remains of the overall deadline. When the timer wins, the raw
// response is substituted with an empty string and the in-flight call is
// cancelled; a result arriving later is dropped on a buffered channel and
// never processed.
func (u *searchUsecase) callProvider(ctx context.Context, query string) string {
	timeout := u.config.Search.ProviderTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline) - deadlineMargin; remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return ""
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type providerResult struct {
		raw string
		err error
	}
	resultCh := make(chan providerResult, 1)
	go func() {
		raw, err := u.provider.SearchProducts(callCtx, query)
		resultCh <- providerResult{raw: raw, err: err}
	}()

	select {
	case r := <-resultCh:
		if r.err != nil {
			log.Warnw(ctx, "provider call failed", "query", query, "error", r.err)
			return ""
		}
		return r.raw
	case <-callCtx.Done():
		log.Warnw(ctx, "provider call timed out", "query", query, "timeout", timeout.String())
		return ""
	}
}
