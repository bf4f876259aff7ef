package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/kafka"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/pkg/ctxval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu        sync.Mutex
	responses []string
	delay     time.Duration
	calls     int
}

func (s *stubProvider) SearchProducts(ctx context.Context, query string) (string, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if call >= len(s.responses) {
		return "", nil
	}
	return s.responses[call], nil
}

func (s *stubProvider) AnalyzeProduct(ctx context.Context, name, description string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubSource struct {
	products []models.Product
	err      error
	delay    time.Duration
}

func (s *stubSource) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.products, s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.SearchEvent
}

func (r *recordingPublisher) SearchCompleted(ctx context.Context, event kafka.SearchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) Close() error { return nil }

func searchConfig() *config.Config {
	cfg := testConfig()
	cfg.Search.OverallTimeout = 5 * time.Second
	cfg.Search.ProviderTimeout = time.Second
	cfg.Search.MaxRetries = 0
	cfg.Search.MaxResults = 10
	return cfg
}

func newSearchForTest(cfg *config.Config, provider *stubProvider, source *stubSource) (SearchUsecase, *recordingPublisher) {
	events := &recordingPublisher{}
	validator := NewProductValidator(cfg, &fakeChecker{})
	return NewSearchUsecase(cfg, provider, validator, source, events), events
}

const syrupJSON = `{"products":[{
	"id": "llm-syrup",
	"name": "Maple Syrup",
	"price": 14.5,
	"available": true,
	"images": ["https://cdn.example.com/llm-syrup.jpg"],
	"url": "https://llm.example.com/syrup",
	"description": "Syrup found on the web",
	"manufacturer": "WebMaple"
}]}`

func catalogSyrup() models.Product {
	return models.Product{
		ID:           "cat-1",
		Name:         "Maple Syrup",
		Price:        12.99,
		Available:    true,
		Images:       []string{"https://cdn.example.com/cat-syrup.jpg"},
		URL:          "https://catalog.example.com/syrup",
		Description:  "Catalog syrup",
		Manufacturer: "MapleCo",
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	search, _ := newSearchForTest(searchConfig(), &stubProvider{}, &stubSource{})

	_, err := search.Search(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrEmptyQuery)

	_, err = search.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrEmptyQuery)
}

func TestSearch_DeduplicatesByName_FirstSourceWins(t *testing.T) {
	provider := &stubProvider{responses: []string{syrupJSON}}
	source := &stubSource{products: []models.Product{catalogSyrup()}}
	search, _ := newSearchForTest(searchConfig(), provider, source)

	products, err := search.Search(context.Background(), "maple syrup")
	require.NoError(t, err)

	names := 0
	for _, p := range products {
		if p.Name == "Maple Syrup" {
			names++
			assert.Equal(t, "https://catalog.example.com/syrup", p.URL,
				"catalog entry precedes provider entry in concatenation order")
		}
	}
	assert.Equal(t, 1, names)
}

func TestSearch_MalformedProviderOutput(t *testing.T) {
	provider := &stubProvider{responses: []string{"not json"}}
	search, _ := newSearchForTest(searchConfig(), provider, &stubSource{})

	products, err := search.Search(context.Background(), "maple syrup")
	require.NoError(t, err, "malformed provider output is not an error")
	assert.Empty(t, products)
}

func TestSearch_ProviderSlowerThanTimer(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.ProviderTimeout = 50 * time.Millisecond

	provider := &stubProvider{responses: []string{syrupJSON}, delay: 10 * time.Second}
	source := &stubSource{products: []models.Product{catalogSyrup()}}
	search, _ := newSearchForTest(cfg, provider, source)

	start := time.Now()
	products, err := search.Search(context.Background(), "maple syrup")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second, "timer bounds latency independent of the provider")
	require.Len(t, products, 1)
	assert.Equal(t, "cat-1", products[0].ID, "late provider result is discarded, catalog still served")
}

func TestSearch_RetriesOnEmptyValidatedOutput(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.MaxRetries = 1

	provider := &stubProvider{responses: []string{"garbage", syrupJSON}}
	search, _ := newSearchForTest(cfg, provider, &stubSource{})

	products, err := search.Search(context.Background(), "maple syrup")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Maple Syrup", products[0].Name)
	assert.Equal(t, 2, provider.callCount())
}

func TestSearch_RetryBudgetIsFinite(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.MaxRetries = 2

	provider := &stubProvider{responses: []string{"garbage", "garbage", "garbage", "garbage"}}
	search, _ := newSearchForTest(cfg, provider, &stubSource{})

	products, err := search.Search(context.Background(), "maple syrup")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, 3, provider.callCount(), "initial attempt plus two retries")
}

func TestSearch_CatalogFailureDegrades(t *testing.T) {
	provider := &stubProvider{responses: []string{syrupJSON}}
	source := &stubSource{err: errors.New("catalog down")}
	search, _ := newSearchForTest(searchConfig(), provider, source)

	products, err := search.Search(context.Background(), "maple syrup")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "llm-syrup", products[0].ID)
}

func TestSearch_EmittedProductInvariants(t *testing.T) {
	raw := `{"products":[
		{"id":"ok","name":"Toque","price":25,"available":true,
		 "images":["https://cdn.example.com/toque.jpg"],
		 "url":"https://example.com/toque","description":"Wool hat","manufacturer":"HatCo"},
		{"name":"No Manufacturer","price":10,"available":true,
		 "images":["https://cdn.example.com/x.jpg"],
		 "url":"https://example.com/x","description":"desc"},
		{"name":"Placeholder Only","price":10,"available":true,
		 "images":["https://placehold.co/600x400.png"],
		 "url":"https://example.com/y","description":"desc","manufacturer":"YCo"}
	]}`
	provider := &stubProvider{responses: []string{raw}}
	search, _ := newSearchForTest(searchConfig(), provider, &stubSource{})

	products, err := search.Search(context.Background(), "winter gear")
	require.NoError(t, err)
	require.Len(t, products, 1)

	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.URL)
		assert.NotEmpty(t, p.Manufacturer)
		assert.NotEmpty(t, p.Description)
		assert.NotEmpty(t, p.Images)
	}
}

func TestSearch_PublishesEvent(t *testing.T) {
	provider := &stubProvider{responses: []string{syrupJSON}}
	search, events := newSearchForTest(searchConfig(), provider, &stubSource{})

	ctx := ctxval.Wrap(context.Background())
	ctxval.SetClientKey(ctx, "203.0.113.7|partner-42")

	_, err := search.Search(ctx, "maple syrup")
	require.NoError(t, err)

	events.mu.Lock()
	defer events.mu.Unlock()
	require.Len(t, events.events, 1)
	assert.Equal(t, "maple syrup", events.events[0].Query)
	assert.Equal(t, "203.0.113.7|partner-42", events.events[0].ClientKey)
	assert.Equal(t, 1, events.events[0].Results)
}
