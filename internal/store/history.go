package store

import (
	"context"
	"encoding/json"
	"fmt"

	"ECOTRACE_BACK-END/internal/models"
)

// InsertHistoryEntry appends an immutable analysis entry
func (s *Store) InsertHistoryEntry(ctx context.Context, entry *models.HistoryEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO history_entries (id, user_id, timestamp, analysis_type, query, analysis, is_comparison_analysis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.Timestamp, string(entry.AnalysisType),
		entry.Query, []byte(entry.Analysis), entry.IsComparisonAnalysis)
	return mapError(err)
}

// InsertComparisonEntry appends an immutable comparison entry
func (s *Store) InsertComparisonEntry(ctx context.Context, entry *models.ComparisonEntry) error {
	products, err := json.Marshal(entry.Products)
	if err != nil {
		return fmt.Errorf("failed to serialize comparison products: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO comparison_entries (id, user_id, timestamp, products, comparison_notes)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.Timestamp, products, entry.ComparisonNotes)
	return mapError(err)
}

// ListHistoryEntries returns all of a user's analysis entries, newest first
func (s *Store) ListHistoryEntries(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, timestamp, analysis_type, query, analysis, is_comparison_analysis
		 FROM history_entries WHERE user_id = $1 ORDER BY timestamp DESC`,
		userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var analysisType string
		var analysis []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Timestamp, &analysisType,
			&entry.Query, &analysis, &entry.IsComparisonAnalysis); err != nil {
			return nil, mapError(err)
		}
		entry.AnalysisType = models.AnalysisType(analysisType)
		entry.Analysis = json.RawMessage(analysis)
		entries = append(entries, entry)
	}
	return entries, mapError(rows.Err())
}

// ListComparisonEntries returns all of a user's comparison entries, newest first
func (s *Store) ListComparisonEntries(ctx context.Context, userID string) ([]models.ComparisonEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, timestamp, products, comparison_notes
		 FROM comparison_entries WHERE user_id = $1 ORDER BY timestamp DESC`,
		userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []models.ComparisonEntry
	for rows.Next() {
		var entry models.ComparisonEntry
		var products []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Timestamp, &products, &entry.ComparisonNotes); err != nil {
			return nil, mapError(err)
		}
		if err := json.Unmarshal(products, &entry.Products); err != nil {
			return nil, fmt.Errorf("failed to decode comparison products: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, mapError(rows.Err())
}
