package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"event-analytics-service/internal/model"
)

const aggregateActivityLimit = 20

// CalculateAggregateStats folds the stats of every event the actor owns.
// A nil actor yields a zeroed snapshot.
func CalculateAggregateStats(src Source, actor *model.Actor, owns Ownership, now time.Time) model.AggregateStats {
	stats := emptyAggregate()
	stats.LastUpdated = now
	if actor == nil || actor.ID == "" {
		return stats
	}

	var (
		totalRevenue = decimal.Zero
		ratingCount  int
		ratingSum    int
		activity     []model.ActivityItem
	)

	for _, event := range src.Events() {
		if !owns(*actor, event) {
			continue
		}
		eventStats, ok := CalculateEventStats(src, event.ID)
		if !ok {
			continue
		}

		stats.TotalEvents++
		stats.TotalViews += eventStats.TotalViews
		stats.TotalRegistrations += eventStats.TotalRegistrations
		totalRevenue = totalRevenue.Add(decimal.NewFromFloat(eventStats.Payments.TotalRevenue))
		stats.EventStats[event.ID] = eventStats

		for _, r := range event.Ratings {
			ratingSum += r.Value
		}
		ratingCount += len(event.Ratings)

		activity = append(activity, eventStats.RecentActivity...)
	}

	stats.TotalRevenue = totalRevenue.InexactFloat64()
	stats.ConversionRate = conversionRate(stats.TotalRegistrations, stats.TotalViews)
	if ratingCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratingCount)
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	if len(activity) > aggregateActivityLimit {
		activity = activity[:aggregateActivityLimit]
	}
	stats.RecentActivity = append(stats.RecentActivity, activity...)

	return stats
}

func emptyAggregate() model.AggregateStats {
	return model.AggregateStats{
		RecentActivity: []model.ActivityItem{},
		EventStats:     map[string]model.EventStats{},
	}
}

// toOwnerAnalytics drops the per-event breakdown for the summary cards.
// Monthly growth stays zero: no trend is derived from current totals.
func toOwnerAnalytics(stats model.AggregateStats) model.OwnerAnalytics {
	return model.OwnerAnalytics{
		TotalEvents:        stats.TotalEvents,
		TotalViews:         stats.TotalViews,
		TotalRegistrations: stats.TotalRegistrations,
		TotalRevenue:       stats.TotalRevenue,
		ConversionRate:     stats.ConversionRate,
		AverageRating:      stats.AverageRating,
		RecentActivity:     stats.RecentActivity,
		LastUpdated:        stats.LastUpdated,
	}
}
