package model

import "encoding/json"

// Competitor is the canonical view of one analytics snapshot.
// Absent numeric measurements are nil pointers, never zero: a competitor
// with 0 observed visits and a competitor with no visit data must stay
// distinguishable all the way to the report.
type Competitor struct {
	Domain         string             `json:"domain"`
	Rankings       Rankings           `json:"rankings"`
	Traffic        Traffic            `json:"traffic"`
	Engagement     Engagement         `json:"engagement"`
	TrafficSources map[string]float64 `json:"traffic_sources,omitempty"` // channel -> share in [0,1]
	TopCountries   []CountryShare     `json:"top_countries,omitempty"`   // provider order, max 5
	Description    string             `json:"description,omitempty"`
	Raw            json.RawMessage    `json:"raw_data,omitempty"` // unmodified source record, audit only
}

// Rankings holds the traffic-rank section of a snapshot.
type Rankings struct {
	GlobalRank   *int64 `json:"global_rank,omitempty"`
	CountryRank  *int64 `json:"country_rank,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Category     string `json:"category,omitempty"`
	CategoryRank *int64 `json:"category_rank,omitempty"`
}

// Traffic holds the visit counts of a snapshot.
type Traffic struct {
	MonthlyVisits map[string]int64 `json:"monthly_visits,omitempty"` // "YYYY-MM" -> visits
	CurrentVisits *int64           `json:"current_visits,omitempty"`
	CurrentMonth  string           `json:"current_month,omitempty"` // "YYYY-MM" label for CurrentVisits
}

// Engagement holds per-visit behavior metrics.
type Engagement struct {
	BounceRate        *float64 `json:"bounce_rate,omitempty"` // percent, [0,100]
	PagesPerVisit     *float64 `json:"pages_per_visit,omitempty"`
	TimeOnSiteSeconds *float64 `json:"time_on_site_seconds,omitempty"`
}

// CountryShare is one entry of the geographic distribution.
type CountryShare struct {
	CountryCode string  `json:"country_code"`
	Share       float64 `json:"share"` // [0,1]
}

// CurrentVisitsOrZero returns the current visit count, treating an unknown
// count as 0. Aggregations that need this collapse must say so explicitly.
func (c *Competitor) CurrentVisitsOrZero() int64 {
	if c.Traffic.CurrentVisits == nil {
		return 0
	}
	return *c.Traffic.CurrentVisits
}

// PositioningInput describes the product being validated against the
// competitor set. Immutable caller input.
type PositioningInput struct {
	ProductName  string  `json:"product_name"`
	ProductFocus string  `json:"product_focus"`
	TargetUsers  int64   `json:"target_users"` // user count at the planning horizon
	TargetARPU   float64 `json:"target_arpu"`  // dollars per user per month
}
