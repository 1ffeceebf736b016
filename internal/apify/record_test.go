package apify

import (
	"encoding/json"
	"testing"
)

func TestSnapshot_Unmarshal_FullRecord(t *testing.T) {
	payload := `{
		"domain": "dealcheck.io",
		"Description": "Real estate analysis software",
		"GlobalRank": {"Rank": 151234},
		"CountryRank": {"Rank": 40211, "CountryCode": "US"},
		"Category": "finance/real_estate",
		"CategoryRank": {"Rank": "312"},
		"Engagments": {
			"BounceRate": "0.4668",
			"Month": "7",
			"Year": "2026",
			"PagePerVisit": "5.31",
			"Visits": "104233",
			"TimeOnSite": "312.7"
		},
		"EstimatedMonthlyVisits": {"2026-05-01": 98000, "2026-06-01": 101500, "2026-07-01": 104233},
		"TrafficSources": {"Direct": 0.62, "Search": 0.31},
		"TopCountryShares": [{"CountryCode": "US", "Value": 0.91}, {"CountryCode": "CA", "Value": 0.04}]
	}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if snap.Domain != "dealcheck.io" {
		t.Errorf("Unexpected domain: %q", snap.Domain)
	}
	if !snap.GlobalRank.Rank.Valid || snap.GlobalRank.Rank.Value != 151234 {
		t.Errorf("Unexpected global rank: %+v", snap.GlobalRank.Rank)
	}
	// String-typed rank must parse too.
	if !snap.CategoryRank.Rank.Valid || snap.CategoryRank.Rank.Value != 312 {
		t.Errorf("Unexpected category rank: %+v", snap.CategoryRank.Rank)
	}
	if !snap.Engagements.Visits.Valid || snap.Engagements.Visits.Value != 104233 {
		t.Errorf("Unexpected visits: %+v", snap.Engagements.Visits)
	}
	if !snap.Engagements.BounceRate.Valid || snap.Engagements.BounceRate.Value != 0.4668 {
		t.Errorf("Unexpected bounce rate: %+v", snap.Engagements.BounceRate)
	}
	if snap.Engagements.Month != "7" || snap.Engagements.Year != "2026" {
		t.Errorf("Unexpected period: %q-%q", snap.Engagements.Year, snap.Engagements.Month)
	}
	if len(snap.MonthlyVisits) != 3 || snap.MonthlyVisits["2026-07-01"] != 104233 {
		t.Errorf("Unexpected monthly visits: %v", snap.MonthlyVisits)
	}
	if len(snap.TopCountries) != 2 || snap.TopCountries[0].CountryCode != "US" {
		t.Errorf("Unexpected top countries: %v", snap.TopCountries)
	}
	if len(snap.Raw) == 0 {
		t.Error("Expected raw record to be retained")
	}
}

func TestSnapshot_Unmarshal_SparseRecord(t *testing.T) {
	payload := `{"SiteName": "smallsite.com", "Engagments": {"Visits": "", "BounceRate": null}}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("Expected no error for sparse record, got %v", err)
	}

	if snap.Domain != "" || snap.SiteName != "smallsite.com" {
		t.Errorf("Unexpected identity: domain=%q site=%q", snap.Domain, snap.SiteName)
	}
	if snap.Engagements.Visits.Valid {
		t.Error("Empty visits string must stay unset, not become 0")
	}
	if snap.Engagements.BounceRate.Valid {
		t.Error("Null bounce rate must stay unset")
	}
}

func TestSnapshot_Unmarshal_MalformedSubfields(t *testing.T) {
	// Wrong types in sub-fields degrade to unset; only a non-object record fails.
	payload := `{"domain": "x.com", "GlobalRank": "oops", "TrafficSources": [1, 2], "Engagments": {"Visits": "12.9"}}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("Expected malformed sub-fields to degrade, got %v", err)
	}

	if snap.GlobalRank.Rank.Valid {
		t.Error("Expected global rank to stay unset")
	}
	if snap.TrafficSources != nil {
		t.Errorf("Expected traffic sources to stay unset, got %v", snap.TrafficSources)
	}
	if !snap.Engagements.Visits.Valid || snap.Engagements.Visits.Value != 12 {
		t.Errorf("Expected fractional visits string to truncate to 12, got %+v", snap.Engagements.Visits)
	}

	var notObject Snapshot
	if err := json.Unmarshal([]byte(`[1,2,3]`), &notObject); err == nil {
		t.Error("Expected error for non-object record")
	}
}

func TestSnapshot_Unmarshal_ZeroIsObserved(t *testing.T) {
	payload := `{"domain": "zero.io", "Engagments": {"Visits": "0"}}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !snap.Engagements.Visits.Valid || snap.Engagements.Visits.Value != 0 {
		t.Errorf("An observed zero must stay a valid 0, got %+v", snap.Engagements.Visits)
	}
}
