package llm

import (
	"encoding/json"
	"strings"

	"github.com/nguyentranbao-ct/product-search/internal/models"
)

// ExtractProducts turns raw provider text into candidate products. Malformed
// output is expected, not exceptional: any parse failure yields an empty
// slice, as does a missing products field. The provider often wraps its JSON
// in markdown fences or explanatory prose despite being told not to.
func ExtractProducts(raw string) []models.CandidateProduct {
	payload := extractJSONObject(raw)
	if payload == "" {
		return nil
	}

	var result models.ProviderResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil
	}
	return result.Products
}

// ExtractAnalysis parses the analyze response the same tolerant way.
func ExtractAnalysis(raw string) (models.AnalysisResult, bool) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return models.AnalysisResult{}, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return models.AnalysisResult{}, false
	}
	if result.Summary == "" {
		return models.AnalysisResult{}, false
	}
	return result, true
}

// extractJSONObject strips markdown fences and any prose around the outermost
// JSON object. Returns "" when no object is present at all.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
