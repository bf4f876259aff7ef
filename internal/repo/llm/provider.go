package llm

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/pkg/tmplx"
)

// Provider is the natural-language search capability. It returns raw text
// that should contain a single JSON object but carries no guarantee of
// validity, completeness, or absence of prose around it.
type Provider interface {
	SearchProducts(ctx context.Context, query string) (string, error)
	AnalyzeProduct(ctx context.Context, name, description string) (string, error)
}

type genkitProvider struct {
	genkit *genkit.Genkit
	config *config.Config
}

func NewProvider(g *genkit.Genkit, cfg *config.Config) Provider {
	return &genkitProvider{
		genkit: g,
		config: cfg,
	}
}

var searchSystemTmpl = tmplx.MustParse("search_system", `You are an expert in Canadian-made products. Perform a live web search (not your knowledge base) for products that claim to be Canadian-made based on the user's query. Find up to the top {{.MaxResults}} such products, including brand-new retail items as well as artisan/marketplace listings.

Return results as a single JSON object (no markdown, no code block, no extra text):
{
  "products": [{
    "id": string,
    "name": string,
    "price": number,
    "available": boolean,
    "images": string[],
    "url": string,
    "description": string,
    "manufacturer": string,
    "countries": [{"code": string, "name": string, "percentage": number}],
    "canadianPercentage": number
  }]
}
Image URLs must be valid, accessible jpg, png, gif, webp or svg files and must differ from the product URL. If you cannot find any matching products, return an empty "products" array. Do not return incomplete JSON.`)

var searchPromptTmpl = tmplx.MustParse("search_prompt", `Search the web for products claiming to be Canadian-made matching: {{.Query}}. Include manufacturing percentage fields where available. Do not ask for clarification, just return the results.`)

// SearchProducts issues one provider call. The caller owns the deadline; a
// cancelled context aborts the generation.
func (p *genkitProvider) SearchProducts(ctx context.Context, query string) (string, error) {
	system, err := searchSystemTmpl.RenderString(map[string]any{
		"MaxResults": p.config.Search.MaxResults,
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	prompt, err := searchPromptTmpl.RenderString(map[string]any{
		"Query": query,
	})
	if err != nil {
		return "", fmt.Errorf("render search prompt: %w", err)
	}

	resp, err := genkit.Generate(ctx, p.genkit,
		ai.WithSystem(system),
		ai.WithPrompt(prompt),
		ai.WithModelName(p.config.LLM.Model),
		ai.WithConfig(map[string]any{
			"maxOutputTokens": p.config.LLM.MaxOutputTokens,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("generate products: %w", err)
	}

	text := resp.Text()
	log.Debugw(ctx, "provider search response", "query", query, "length", len(text))
	return text, nil
}

const analyzeInstructions = `You analyze how credibly a product claims to be Canadian-made. Given a product name and description, return a single JSON object (no markdown, no extra text):
{"summary": string, "score": number}
where summary is one or two sentences and score is a 0-100 confidence that the product is Canadian-made.`

var analyzePromptTmpl = tmplx.MustParse("analyze_prompt", `Product: {{.Name}}
Description: {{.Description}}`)

func (p *genkitProvider) AnalyzeProduct(ctx context.Context, name, description string) (string, error) {
	prompt, err := analyzePromptTmpl.RenderString(map[string]any{
		"Name":        name,
		"Description": description,
	})
	if err != nil {
		return "", fmt.Errorf("render analyze prompt: %w", err)
	}

	resp, err := genkit.Generate(ctx, p.genkit,
		ai.WithSystem(analyzeInstructions),
		ai.WithPrompt(prompt),
		ai.WithModelName(p.config.LLM.Model),
	)
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}
	return resp.Text(), nil
}
