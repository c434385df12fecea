package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/dto"
)

// Analyzer produces environmental impact analyses for products. The rest
// of the backend treats the analysis content as opaque; this boundary is
// what makes the scoring engine swappable.
type Analyzer interface {
	AnalyzeProduct(ctx context.Context, query, queryType string) (dto.ProductAnalysis, error)
	AnalyzeBarcode(ctx context.Context, barcode string) (dto.ProductAnalysis, error)
	Ping(ctx context.Context) error
}

// OllamaAnalyzer asks a local Ollama model to score products
type OllamaAnalyzer struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewOllamaAnalyzer creates an analyzer against the given Ollama endpoint
func NewOllamaAnalyzer(baseURL, model string, timeout time.Duration, logger *zap.Logger) *OllamaAnalyzer {
	return &OllamaAnalyzer{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

const analyzeSystemPrompt = `You are an environmental impact analyst. Respond with ONLY a valid JSON object matching this structure:
{"product_info":{"name":string,"brand":string,"category":string},"impact_factors":[{"name":string,"score":int,"description":string,"weight":float}],"eco_score":int (1-100),"confidence_level":float (0-1),"analysis_summary":string,"recommendations":[string],"data_sources":[string]}`

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Ping reports whether the Ollama endpoint is reachable
func (a *OllamaAnalyzer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

// AnalyzeProduct scores a product identified by name or URL
func (a *OllamaAnalyzer) AnalyzeProduct(ctx context.Context, query, queryType string) (dto.ProductAnalysis, error) {
	prompt := fmt.Sprintf("Analyze the environmental impact of this product and provide an EcoScore.\n\nProduct: %s", query)
	if queryType == "url" {
		prompt = fmt.Sprintf("Analyze the environmental impact of the product at this URL and provide an EcoScore.\n\nURL: %s", query)
	}
	return a.generate(ctx, prompt, query)
}

// AnalyzeBarcode scores a product identified by barcode
func (a *OllamaAnalyzer) AnalyzeBarcode(ctx context.Context, barcode string) (dto.ProductAnalysis, error) {
	prompt := fmt.Sprintf("Analyze the environmental impact of the product with barcode %s and provide an EcoScore.", barcode)
	return a.generate(ctx, prompt, barcode)
}

func (a *OllamaAnalyzer) generate(ctx context.Context, prompt, fallbackName string) (dto.ProductAnalysis, error) {
	var analysis dto.ProductAnalysis

	body, err := json.Marshal(generateRequest{
		Model:  a.model,
		Prompt: prompt,
		System: analyzeSystemPrompt,
		Stream: false,
	})
	if err != nil {
		return analysis, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return analysis, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return analysis, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return analysis, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return analysis, fmt.Errorf("failed to decode ollama response: %w", err)
	}

	if err := json.Unmarshal([]byte(extractJSONObject(gen.Response)), &analysis); err != nil {
		a.logger.Warn("model returned non-JSON analysis", zap.Error(err))
		return analysis, fmt.Errorf("model returned unparseable analysis: %w", err)
	}
	if analysis.ProductInfo.Name == "" {
		analysis.ProductInfo.Name = fallbackName
	}
	return analysis, nil
}

// extractJSONObject trims any chatter the model emits around the JSON body
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
