// Package datasets serves the site's pre-computed JSON datasets with
// single-flight caching.
package datasets

import "sort"

// Dataset names as exposed by the API.
const (
	DatasetManifest        = "manifest"
	DatasetSummary         = "summary"
	DatasetDailyStacked    = "daily_stacked"
	DatasetDailyByToken    = "daily_by_token"
	DatasetDailyByType     = "daily_by_type"
	DatasetDailyByPool     = "daily_by_pool"
	DatasetDailyByPoolType = "daily_by_pool_type"
	DatasetPoolTypeSummary = "pool_type_summary"
	DatasetTopTxByToken    = "top_transactions_token"
	DatasetTopTxByPool     = "top_transactions_pool"
	DatasetTopTxByType     = "top_transactions_type"
	DatasetApr             = "apr_data"
	DatasetStaking         = "staking"
	DatasetStakerLoyalty   = "staker_loyalty"
	DatasetUsageMetrics    = "usage_metrics"
	DatasetVestingTimeline = "vesting_timeline"
)

// catalog maps dataset names to their paths under the data base URL.
// Field names and shapes are owned by the upstream pipeline; this
// service only requires valid JSON and the stable names below.
var catalog = map[string]string{
	DatasetManifest:        "_manifest.json",
	DatasetSummary:         "summary.json",
	DatasetDailyStacked:    "daily_stacked.json",
	DatasetDailyByToken:    "daily_by_token.json",
	DatasetDailyByType:     "daily_by_type.json",
	DatasetDailyByPool:     "daily_by_pool.json",
	DatasetDailyByPoolType: "daily_by_pool_type.json",
	DatasetPoolTypeSummary: "pool_type_summary.json",
	DatasetTopTxByToken:    "top_transactions_token.json",
	DatasetTopTxByPool:     "top_transactions_pool.json",
	DatasetTopTxByType:     "top_transactions_type.json",
	DatasetApr:             "apr_data.json",
	DatasetStaking:         "staking_tuna.json",
	DatasetStakerLoyalty:   "staker_loyalty.json",
	DatasetUsageMetrics:    "usage_metrics.json",
	DatasetVestingTimeline: "vesting_timeline.json",
}

// Path returns the relative path for a dataset name.
func Path(name string) (string, bool) {
	p, ok := catalog[name]
	return p, ok
}

// Names returns all known dataset names in stable order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
