package intel

import (
	"github.com/mlutsenko/prevet/internal/apify"
	"github.com/mlutsenko/prevet/internal/model"
)

// Normalize maps raw snapshots to canonical competitors, preserving input
// order. It never fails: a record with missing identity degrades to the
// "Unknown" placeholder and missing measurements stay nil, so one sparse
// record can't abort a whole run.
func Normalize(snapshots []apify.Snapshot) []model.Competitor {
	competitors := make([]model.Competitor, 0, len(snapshots))
	for i := range snapshots {
		competitors = append(competitors, normalizeOne(&snapshots[i]))
	}
	return competitors
}

func normalizeOne(snap *apify.Snapshot) model.Competitor {
	comp := model.Competitor{
		Domain:      resolveDomain(snap),
		Description: snap.Description,
		Raw:         snap.Raw,
	}

	comp.Rankings = model.Rankings{
		GlobalRank:   optInt(snap.GlobalRank.Rank),
		CountryRank:  optInt(snap.CountryRank.Rank),
		CountryCode:  defaultString(snap.CountryRank.CountryCode, "US"),
		Category:     snap.Category,
		CategoryRank: optInt(snap.CategoryRank.Rank),
	}

	comp.Traffic = model.Traffic{
		MonthlyVisits: snap.MonthlyVisits,
		CurrentVisits: optInt(snap.Engagements.Visits),
		CurrentMonth:  monthLabel(snap.Engagements.Year, snap.Engagements.Month),
	}

	comp.Engagement = model.Engagement{
		// Upstream reports bounce as a fraction; the canonical unit is percent.
		BounceRate:        scaleOpt(snap.Engagements.BounceRate, 100),
		PagesPerVisit:     optFloat(snap.Engagements.PagePerVisit),
		TimeOnSiteSeconds: optFloat(snap.Engagements.TimeOnSite),
	}

	comp.TrafficSources = snap.TrafficSources

	// The provider returns countries pre-sorted by share; keep its order.
	limit := len(snap.TopCountries)
	if limit > 5 {
		limit = 5
	}
	for _, entry := range snap.TopCountries[:limit] {
		comp.TopCountries = append(comp.TopCountries, model.CountryShare{
			CountryCode: entry.CountryCode,
			Share:       entry.Value,
		})
	}

	return comp
}

// resolveDomain prefers the record's domain field, then the site name, then
// a placeholder. Absence of identity is a data gap, not a failure.
func resolveDomain(snap *apify.Snapshot) string {
	if snap.Domain != "" {
		return snap.Domain
	}
	if snap.SiteName != "" {
		return snap.SiteName
	}
	return "Unknown"
}

// monthLabel builds "YYYY-MM" when the month is known, "" otherwise.
func monthLabel(year, month string) string {
	if month == "" {
		return ""
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return year + "-" + month
}

func optInt(o apify.OptInt) *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func optFloat(o apify.OptFloat) *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func scaleOpt(o apify.OptFloat, factor float64) *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value * factor
	return &v
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
