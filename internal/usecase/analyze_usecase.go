package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/internal/repo/llm"
)

type analyzeUsecase struct {
	provider llm.Provider
}

func NewAnalyzeUsecase(provider llm.Provider) AnalyzeUsecase {
	return &analyzeUsecase{provider: provider}
}

func (u *analyzeUsecase) Analyze(ctx context.Context, name, description string) (*models.AnalysisResult, error) {
	raw, err := u.provider.AnalyzeProduct(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("analyze product: %w", err)
	}

	result, ok := llm.ExtractAnalysis(raw)
	if !ok {
		log.Warnw(ctx, "analysis response not parseable", "name", name)
		return nil, fmt.Errorf("provider returned no usable analysis")
	}
	return &result, nil
}
