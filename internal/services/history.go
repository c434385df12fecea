package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/models"
)

const (
	// DefaultHistoryLimit is used when a query does not specify a page size
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps the page size of history queries
	MaxHistoryLimit = 100
	// comparisonResultCap bounds the comparisons returned alongside a
	// history page, independent of the entries pagination
	comparisonResultCap = 10

	minComparisonProducts = 2
	maxComparisonProducts = 3
)

// HistoryEntryStore is the storage collaborator for history records
type HistoryEntryStore interface {
	InsertHistoryEntry(ctx context.Context, entry *models.HistoryEntry) error
	InsertComparisonEntry(ctx context.Context, entry *models.ComparisonEntry) error
	ListHistoryEntries(ctx context.Context, userID string) ([]models.HistoryEntry, error)
	ListComparisonEntries(ctx context.Context, userID string) ([]models.ComparisonEntry, error)
}

// HistoryService records analyses and comparisons for registered users and
// serves filtered history. Anonymous identities are silently skipped:
// history is a feature reserved for registered accounts, not a security
// boundary.
type HistoryService struct {
	identity *IdentityService
	entries  HistoryEntryStore
	logger   *zap.Logger
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(identity *IdentityService, entries HistoryEntryStore, logger *zap.Logger) *HistoryService {
	return &HistoryService{identity: identity, entries: entries, logger: logger}
}

// analysisFacts is the slice of an analysis payload the core is allowed to
// interpret; everything else stays opaque.
type analysisFacts struct {
	EcoScore    int    `json:"eco_score"`
	ProductInfo struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"product_info"`
}

func extractFacts(raw json.RawMessage) analysisFacts {
	var facts analysisFacts
	// Unparseable payloads contribute zero values; they were stored
	// opaquely and must not fail a read path.
	_ = json.Unmarshal(raw, &facts)
	return facts
}

// RecordAnalysis appends an analysis entry to the presenting user's
// history. For anonymous identities it records nothing and returns an
// empty id.
func (s *HistoryService) RecordAnalysis(ctx context.Context, tokenStr, query string, analysis json.RawMessage, analysisType models.AnalysisType, isComparison bool) (string, error) {
	user, err := s.identity.ResolveByToken(ctx, tokenStr)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsAnonymous {
		return "", nil
	}

	now := time.Now().UTC()
	entry := &models.HistoryEntry{
		ID:                   uuid.New().String(),
		UserID:               user.ID,
		Timestamp:            now,
		AnalysisType:         analysisType,
		Query:                query,
		Analysis:             analysis,
		IsComparisonAnalysis: isComparison,
	}

	if err := s.entries.InsertHistoryEntry(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	if err := s.identity.users.TouchLastActive(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to refresh last_active", zap.String("user_id", user.ID), zap.Error(err))
	}
	return entry.ID, nil
}

// RecordComparison appends a comparison of 2-3 product analyses. Anonymous
// identities record nothing and get an empty id.
func (s *HistoryService) RecordComparison(ctx context.Context, tokenStr string, products []json.RawMessage, notes *string) (string, error) {
	if len(products) < minComparisonProducts || len(products) > maxComparisonProducts {
		return "", fmt.Errorf("comparison requires %d-%d products, got %d",
			minComparisonProducts, maxComparisonProducts, len(products))
	}

	user, err := s.identity.ResolveByToken(ctx, tokenStr)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsAnonymous {
		return "", nil
	}

	now := time.Now().UTC()
	entry := &models.ComparisonEntry{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		Timestamp:       now,
		Products:        products,
		ComparisonNotes: notes,
	}

	if err := s.entries.InsertComparisonEntry(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to save comparison: %w", err)
	}
	if err := s.identity.users.TouchLastActive(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to refresh last_active", zap.String("user_id", user.ID), zap.Error(err))
	}
	return entry.ID, nil
}

// QueryHistory returns one page of the user's history plus their most
// recent comparisons. Anonymous identities get an empty result, not an
// error.
func (s *HistoryService) QueryHistory(ctx context.Context, tokenStr string, filter dto.HistoryFilter) (dto.HistoryResponse, error) {
	resp := dto.HistoryResponse{
		Success:     true,
		Entries:     []models.HistoryEntry{},
		Comparisons: []models.ComparisonEntry{},
	}

	user, err := s.identity.ResolveByToken(ctx, tokenStr)
	if err != nil {
		return dto.HistoryResponse{}, err
	}
	if user == nil || user.IsAnonymous {
		return resp, nil
	}

	entries, err := s.entries.ListHistoryEntries(ctx, user.ID)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("failed to load history: %w", err)
	}
	filtered := filterEntries(entries, filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	resp.TotalCount = len(filtered)
	if offset < len(filtered) {
		end := offset + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		resp.Entries = filtered[offset:end]
	}
	resp.HasMore = offset+len(resp.Entries) < resp.TotalCount

	comparisons, err := s.entries.ListComparisonEntries(ctx, user.ID)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("failed to load comparisons: %w", err)
	}
	for _, comp := range comparisons {
		if filter.DateFrom != nil && comp.Timestamp.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && comp.Timestamp.After(*filter.DateTo) {
			continue
		}
		resp.Comparisons = append(resp.Comparisons, comp)
		if len(resp.Comparisons) == comparisonResultCap {
			break
		}
	}

	return resp, nil
}

// GetJourney loads the user's full history and derives the journey view.
// Anonymous identities get an empty journey.
func (s *HistoryService) GetJourney(ctx context.Context, tokenStr string) (dto.JourneyResponse, error) {
	resp := dto.JourneyResponse{Success: true, Journey: emptyJourney()}

	user, err := s.identity.ResolveByToken(ctx, tokenStr)
	if err != nil {
		return dto.JourneyResponse{}, err
	}
	if user == nil || user.IsAnonymous {
		return resp, nil
	}

	entries, err := s.entries.ListHistoryEntries(ctx, user.ID)
	if err != nil {
		return dto.JourneyResponse{}, fmt.Errorf("failed to load history: %w", err)
	}
	comparisons, err := s.entries.ListComparisonEntries(ctx, user.ID)
	if err != nil {
		return dto.JourneyResponse{}, fmt.Errorf("failed to load comparisons: %w", err)
	}

	resp.Journey = BuildJourney(entries, comparisons)
	return resp, nil
}

// filterEntries applies all set filter fields conjunctively, preserving
// the input order (newest first).
func filterEntries(entries []models.HistoryEntry, filter dto.HistoryFilter) []models.HistoryEntry {
	filtered := make([]models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.AnalysisType != nil && entry.AnalysisType != *filter.AnalysisType {
			continue
		}
		if filter.DateFrom != nil && entry.Timestamp.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && entry.Timestamp.After(*filter.DateTo) {
			continue
		}
		if filter.Category != nil || filter.MinEcoScore != nil || filter.MaxEcoScore != nil {
			facts := extractFacts(entry.Analysis)
			if filter.Category != nil && facts.ProductInfo.Category != *filter.Category {
				continue
			}
			if filter.MinEcoScore != nil && facts.EcoScore < *filter.MinEcoScore {
				continue
			}
			if filter.MaxEcoScore != nil && facts.EcoScore > *filter.MaxEcoScore {
				continue
			}
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
