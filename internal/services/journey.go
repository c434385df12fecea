package services

import (
	"fmt"
	"sort"
	"strings"

	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/models"
)

// trendWindow bounds the sub-windows compared for the improvement trend.
// The trend deliberately compares two small fixed-size windows (newest vs
// oldest) rather than fitting the full history; it is a recency signal,
// not a regression.
const trendWindow = 5

const favoriteCategoryCap = 5

// BuildJourney derives the complete journey view from one user's history.
// It is a pure function of its inputs and safe to call concurrently.
// Entries and comparisons are expected newest first, as the store returns
// them. Entries flagged as comparison inputs are excluded from all
// statistics except days_active.
func BuildJourney(entries []models.HistoryEntry, comparisons []models.ComparisonEntry) dto.EcoJourney {
	regular := make([]models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsComparisonAnalysis {
			regular = append(regular, entry)
		}
	}

	stats := calculateJourneyStats(entries, regular, comparisons)
	return dto.EcoJourney{
		Stats:             stats,
		CategoryBreakdown: calculateCategoryStats(regular),
		Timeline:          generateTimeline(regular, comparisons),
		Milestones:        generateMilestones(stats),
	}
}

func emptyJourney() dto.EcoJourney {
	return dto.EcoJourney{
		Stats:             dto.JourneyStats{FavoriteCategories: []string{}},
		CategoryBreakdown: []dto.CategoryStats{},
		Timeline:          []dto.TimelineEntry{},
		Milestones:        []string{},
	}
}

func calculateJourneyStats(all, regular []models.HistoryEntry, comparisons []models.ComparisonEntry) dto.JourneyStats {
	stats := dto.JourneyStats{
		TotalAnalyses:      len(regular),
		TotalComparisons:   len(comparisons),
		FavoriteCategories: []string{},
	}

	// Days active spans every recorded entry, comparison-flagged included
	if len(all) > 0 {
		first, last := all[0].Timestamp, all[0].Timestamp
		for _, entry := range all[1:] {
			if entry.Timestamp.Before(first) {
				first = entry.Timestamp
			}
			if entry.Timestamp.After(last) {
				last = entry.Timestamp
			}
		}
		stats.DaysActive = int(last.Sub(first).Hours()/24) + 1
	}

	if len(regular) == 0 {
		return stats
	}

	scores := make([]int, len(regular))
	for i, entry := range regular {
		scores[i] = extractFacts(entry.Analysis).EcoScore
	}

	stats.AverageEcoScore = meanInt(scores)
	stats.BestEcoScore = scores[0]
	stats.WorstEcoScore = scores[0]
	for _, score := range scores[1:] {
		if score > stats.BestEcoScore {
			stats.BestEcoScore = score
		}
		if score < stats.WorstEcoScore {
			stats.WorstEcoScore = score
		}
	}

	// Entries are newest first, so the head of the list is the recent
	// window and the tail the early one
	if len(scores) >= 2 {
		window := len(scores) / 2
		if window > trendWindow {
			window = trendWindow
		}
		recent := scores[:window]
		early := scores[len(scores)-window:]
		stats.ImprovementTrend = meanInt(recent) - meanInt(early)
	}

	stats.FavoriteCategories = favoriteCategories(regular)

	firstDate, lastDate := regular[0].Timestamp, regular[0].Timestamp
	for _, entry := range regular[1:] {
		if entry.Timestamp.Before(firstDate) {
			firstDate = entry.Timestamp
		}
		if entry.Timestamp.After(lastDate) {
			lastDate = entry.Timestamp
		}
	}
	stats.FirstAnalysisDate = &firstDate
	stats.LastAnalysisDate = &lastDate

	return stats
}

// favoriteCategories returns the most frequent non-empty categories, ties
// broken by first-encountered order
func favoriteCategories(entries []models.HistoryEntry) []string {
	counts := map[string]int{}
	var order []string
	for _, entry := range entries {
		category := extractFacts(entry.Analysis).ProductInfo.Category
		if category == "" {
			continue
		}
		if counts[category] == 0 {
			order = append(order, category)
		}
		counts[category]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > favoriteCategoryCap {
		order = order[:favoriteCategoryCap]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

func calculateCategoryStats(regular []models.HistoryEntry) []dto.CategoryStats {
	grouped := map[string][]int{}
	var order []string
	for _, entry := range regular {
		facts := extractFacts(entry.Analysis)
		if facts.ProductInfo.Category == "" {
			continue
		}
		if _, seen := grouped[facts.ProductInfo.Category]; !seen {
			order = append(order, facts.ProductInfo.Category)
		}
		grouped[facts.ProductInfo.Category] = append(grouped[facts.ProductInfo.Category], facts.EcoScore)
	}

	breakdown := make([]dto.CategoryStats, 0, len(order))
	for _, category := range order {
		scores := grouped[category]
		cat := dto.CategoryStats{
			Category:     category,
			Count:        len(scores),
			AverageScore: meanInt(scores),
			BestScore:    scores[0],
			WorstScore:   scores[0],
		}
		for _, score := range scores[1:] {
			if score > cat.BestScore {
				cat.BestScore = score
			}
			if score < cat.WorstScore {
				cat.WorstScore = score
			}
		}
		// Half-split trend over the scores in the order the entries were
		// grouped; not re-sorted by timestamp
		if len(scores) >= 2 {
			mid := len(scores) / 2
			cat.Trend = meanInt(scores[:mid]) - meanInt(scores[mid:])
		}
		breakdown = append(breakdown, cat)
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].AverageScore > breakdown[j].AverageScore
	})
	return breakdown
}

func generateTimeline(regular []models.HistoryEntry, comparisons []models.ComparisonEntry) []dto.TimelineEntry {
	timeline := make([]dto.TimelineEntry, 0, len(regular)+len(comparisons))

	for _, entry := range regular {
		facts := extractFacts(entry.Analysis)
		point := dto.TimelineEntry{
			Date:         entry.Timestamp,
			EcoScore:     facts.EcoScore,
			ProductName:  facts.ProductInfo.Name,
			AnalysisType: entry.AnalysisType,
		}
		if facts.ProductInfo.Category != "" {
			category := facts.ProductInfo.Category
			point.Category = &category
		}
		timeline = append(timeline, point)
	}

	for _, comparison := range comparisons {
		if len(comparison.Products) == 0 {
			continue
		}
		total := 0
		names := make([]string, 0, len(comparison.Products))
		for _, product := range comparison.Products {
			facts := extractFacts(product)
			total += facts.EcoScore
			names = append(names, facts.ProductInfo.Name)
		}
		labelNames := names
		if len(labelNames) > 2 {
			labelNames = labelNames[:2]
		}
		label := fmt.Sprintf("Compared %s", strings.Join(labelNames, ", "))
		if len(names) > 2 {
			label += "..."
		}
		timeline = append(timeline, dto.TimelineEntry{
			Date:         comparison.Timestamp,
			EcoScore:     total / len(comparison.Products),
			ProductName:  label,
			AnalysisType: models.AnalysisTypeComparison,
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Date.Before(timeline[j].Date)
	})
	return timeline
}

// generateMilestones derives the badge set from the computed stats. It is
// idempotent and recomputed on every call, never stored.
func generateMilestones(stats dto.JourneyStats) []string {
	milestones := []string{}

	if stats.TotalAnalyses >= 1 {
		milestones = append(milestones, "First Analysis Complete!")
	}
	if stats.TotalAnalyses >= 10 {
		milestones = append(milestones, "10 Products Analyzed!")
	}
	if stats.TotalAnalyses >= 50 {
		milestones = append(milestones, "Eco Explorer - 50 Analyses!")
	}
	if stats.TotalAnalyses >= 100 {
		milestones = append(milestones, "Eco Champion - 100 Analyses!")
	}

	if stats.BestEcoScore >= 90 {
		milestones = append(milestones, "Found an Eco Superstar (90+ score)!")
	}
	if stats.AverageEcoScore >= 70 {
		milestones = append(milestones, "Eco-Conscious Choices (70+ avg score)!")
	}
	if stats.ImprovementTrend > 10 {
		milestones = append(milestones, "Great Progress - Improving choices!")
	}

	if len(stats.FavoriteCategories) >= 5 {
		milestones = append(milestones, "Category Explorer - 5+ categories!")
	}

	if stats.DaysActive >= 7 {
		milestones = append(milestones, "Week-long Journey!")
	}
	if stats.DaysActive >= 30 {
		milestones = append(milestones, "Month-long Commitment!")
	}

	return milestones
}

func meanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}
