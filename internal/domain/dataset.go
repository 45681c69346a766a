package domain

// Manifest records when the static datasets were last regenerated by
// the upstream pipeline.
type Manifest struct {
	GeneratedAt string `json:"generated_at"`
}

// DateRange is the coverage window reported by aggregate datasets.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days,omitempty"`
}

// StakingDailyRecord is one day of protocol-wide staking aggregates.
type StakingDailyRecord struct {
	Date        string  `json:"date"`
	Staked      float64 `json:"staked"`
	Unstaked    float64 `json:"unstaked"`
	Total       float64 `json:"total"`
	StakedDelta float64 `json:"staked_delta"`
	TotalDelta  float64 `json:"total_delta"`
}

// StakingTopEntry is one row of a top-stakers / top-withdrawers table.
type StakingTopEntry struct {
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

// StakingMetrics is the protocol-wide staking dataset.
type StakingMetrics struct {
	GeneratedAt     string               `json:"generated_at"`
	DateRange       DateRange            `json:"date_range"`
	Daily           []StakingDailyRecord `json:"daily"`
	TopStakers7d    []StakingTopEntry    `json:"top_stakers_7d"`
	TopWithdrawers7d []StakingTopEntry   `json:"top_withdrawers_7d"`
}

// DailyAprRecord is one day of the APR series.
type DailyAprRecord struct {
	Date                  string  `json:"date"`
	RollingRevenueSol     float64 `json:"rolling_revenue_sol"`
	RollingRevenueUsdc    float64 `json:"rolling_revenue_usdc"`
	RollingDays           int     `json:"rolling_days"`
	AnnualizedRevenueUsdc float64 `json:"annualized_revenue_usdc"`
	ReferenceAprPercent   float64 `json:"reference_apr_percent"`
	YourAprPercent        float64 `json:"your_apr_percent"`
}

// AprSummary holds the headline APR averages.
type AprSummary struct {
	ThirtyDayAverageReferenceApr float64 `json:"thirty_day_average_reference_apr"`
	ThirtyDayAverageYourApr      float64 `json:"thirty_day_average_your_apr"`
	HistoricalAverageReferenceApr float64 `json:"historical_average_reference_apr"`
	HistoricalAverageYourApr     float64 `json:"historical_average_your_apr"`
}

// AprData is the APR dataset.
type AprData struct {
	GeneratedAt string           `json:"generated_at"`
	Summary     AprSummary       `json:"summary"`
	DailyApr    []DailyAprRecord `json:"daily_apr"`
}

// DashboardSummary is the treasury revenue summary dataset. Only the
// fields this service inspects are typed; the rest passes through raw.
type DashboardSummary struct {
	GeneratedAt string    `json:"generated_at"`
	DateRange   DateRange `json:"date_range"`
	TotalSol    float64   `json:"total_sol"`
}
