package apify

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Snapshot is one raw SimilarWeb record as returned by the Apify actor.
// The upstream payload is loosely typed: numeric fields arrive as numbers
// or numeric strings depending on the field, and whole sections may be
// missing for low-traffic sites. Decoding is field-by-field and tolerant:
// a malformed sub-field degrades to "unset", it never fails the record.
type Snapshot struct {
	Domain       string
	SiteName     string
	Description  string
	GlobalRank   RankEntry
	CountryRank  CountryRankEntry
	Category     string
	CategoryRank RankEntry
	Engagements  Engagements
	// MonthlyVisits maps the upstream date label (usually "YYYY-MM-01")
	// to estimated visits for that month.
	MonthlyVisits  map[string]int64
	TrafficSources map[string]float64
	TopCountries   []CountryShareEntry

	// Raw is the unmodified source record, retained for audit. It is never
	// parsed downstream.
	Raw json.RawMessage
}

// RankEntry is a rank sub-object such as GlobalRank or CategoryRank.
type RankEntry struct {
	Rank OptInt `json:"Rank"`
}

// CountryRankEntry carries the country rank plus its country code.
type CountryRankEntry struct {
	Rank        OptInt `json:"Rank"`
	CountryCode string `json:"CountryCode"`
}

// Engagements mirrors the upstream "Engagments" section (the misspelling is
// the provider's). All values arrive as strings.
type Engagements struct {
	Visits       OptInt   `json:"Visits"`
	BounceRate   OptFloat `json:"BounceRate"`
	PagePerVisit OptFloat `json:"PagePerVisit"`
	TimeOnSite   OptFloat `json:"TimeOnSite"`
	Month        string   `json:"Month"`
	Year         string   `json:"Year"`
}

// CountryShareEntry is one entry of the upstream TopCountryShares list.
type CountryShareEntry struct {
	CountryCode string  `json:"CountryCode"`
	Value       float64 `json:"Value"`
}

// UnmarshalJSON decodes a snapshot tolerantly. Unknown keys are ignored and
// per-field decode errors leave that field unset; only a record that is not
// a JSON object at all is an error.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	decode := func(key string, dst any) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		// A failed sub-field decode is a data-quality gap, not an error.
		_ = json.Unmarshal(raw, dst)
	}

	decode("domain", &s.Domain)
	decode("SiteName", &s.SiteName)
	decode("Description", &s.Description)
	decode("GlobalRank", &s.GlobalRank)
	decode("CountryRank", &s.CountryRank)
	decode("Category", &s.Category)
	decode("CategoryRank", &s.CategoryRank)
	decode("Engagments", &s.Engagements)
	decode("EstimatedMonthlyVisits", &s.MonthlyVisits)
	decode("TrafficSources", &s.TrafficSources)
	decode("TopCountryShares", &s.TopCountries)

	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// OptInt is an optional integer that decodes from a JSON number, a numeric
// string, or null. Absence and garbage both leave it unset.
type OptInt struct {
	Value int64
	Valid bool
}

func (o *OptInt) UnmarshalJSON(data []byte) error {
	if f, ok := parseLooseNumber(data); ok {
		o.Value = int64(f)
		o.Valid = true
	}
	return nil
}

// OptFloat is the float counterpart of OptInt.
type OptFloat struct {
	Value float64
	Valid bool
}

func (o *OptFloat) UnmarshalJSON(data []byte) error {
	if f, ok := parseLooseNumber(data); ok {
		o.Value = f
		o.Valid = true
	}
	return nil
}

// parseLooseNumber accepts 123, 123.4, "123.4" and rejects null, "", and
// anything non-numeric.
func parseLooseNumber(data []byte) (float64, bool) {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		return 0, false
	}
	if strings.HasPrefix(text, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(str)
		if text == "" {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
