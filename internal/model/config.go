package model

import "time"

// Config is the complete runtime configuration. It is built by the CLI from
// flags, environment, and the config file, and passed into each component at
// construction; no component reads ambient process state itself.
type Config struct {
	Apify  ApifyConfig  `yaml:"apify"`
	HTTP   HTTPConfig   `yaml:"http"`
	Cache  CacheConfig  `yaml:"cache"`
	Store  StoreConfig  `yaml:"store"`
	Market MarketPolicy `yaml:"market"`
	Score  ScorePolicy  `yaml:"score"`
	LLM    LLMConfig    `yaml:"llm"`
	Output OutputConfig `yaml:"output"`
}

// ApifyConfig configures the SimilarWeb snapshot collaborator.
type ApifyConfig struct {
	Token        string        `yaml:"token,omitempty"` // usually from APIFY_API_TOKEN
	BaseURL      string        `yaml:"base_url"`
	ActorID      string        `yaml:"actor_id"`
	PollInterval time.Duration `yaml:"poll_interval"`
	RunTimeout   time.Duration `yaml:"run_timeout"`
}

// HTTPConfig configures outbound HTTP behavior.
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
}

// CacheConfig configures the snapshot cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// StoreConfig configures the validation store.
type StoreConfig struct {
	DSN string `yaml:"dsn,omitempty"` // usually from VALIDATION_DB_URL
}

// MarketPolicy holds the fixed market-math constants. They live in one place
// so boundary tests can construct exact values.
type MarketPolicy struct {
	ConversionRate   float64 `yaml:"conversion_rate"`    // assumed annual visitor->user conversion
	ReferenceARPU    float64 `yaml:"reference_arpu"`     // baseline competitor ARPU in dollars
	AggressiveAt     float64 `yaml:"aggressive_at"`      // penetration % where "achievable" ends
	UnrealisticAt    float64 `yaml:"unrealistic_at"`     // penetration % where "aggressive" ends
	HighTrafficFloor int64   `yaml:"high_traffic_floor"` // visits above which the top ARPU bucket applies
	MidTrafficFloor  int64   `yaml:"mid_traffic_floor"`
}

// ScorePolicy holds the scorecard weighting constants.
type ScorePolicy struct {
	VisitorDivisor      float64 `yaml:"visitor_divisor"`      // 500 visits saturate at 100
	CTAMultiplier       float64 `yaml:"cta_multiplier"`       // 10% conversion saturates at 100
	InterviewMultiplier float64 `yaml:"interview_multiplier"` // 20 interviews saturate at 100
	WouldPayDivisor     float64 `yaml:"would_pay_divisor"`    // 30% would-pay saturates at 100
	UrgencyMultiplier   float64 `yaml:"urgency_multiplier"`   // 10 high-urgency signals saturate at 100
	GreenAt             float64 `yaml:"green_at"`             // percentage threshold for GREEN
	YellowAt            float64 `yaml:"yellow_at"`            // percentage threshold for YELLOW
}

// LLMConfig configures the optional positioning-notes generator.
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty"` // "" disables
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"-"` // environment only, never persisted
	BaseURL   string `yaml:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens"`
}

// OutputConfig configures rendering behavior.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Apify: ApifyConfig{
			BaseURL:      "https://api.apify.com",
			ActorID:      "mscraper~similarweb-quick-scraper",
			PollInterval: 5 * time.Second,
			RunTimeout:   3 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "prevet/0.2 (+https://github.com/mlutsenko/prevet)",
			MaxBodyBytes:      8_000_000,
			RequestsPerSecond: 2,
			BurstSize:         3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // resolved to ~/.prevet/cache by the CLI
			TTL:     24 * time.Hour,
		},
		Market: MarketPolicy{
			ConversionRate:   0.15,
			ReferenceARPU:    40,
			AggressiveAt:     5,
			UnrealisticAt:    10,
			HighTrafficFloor: 50_000,
			MidTrafficFloor:  10_000,
		},
		Score: ScorePolicy{
			VisitorDivisor:      5,
			CTAMultiplier:       10,
			InterviewMultiplier: 5,
			WouldPayDivisor:     0.3,
			UrgencyMultiplier:   10,
			GreenAt:             60,
			YellowAt:            40,
		},
		LLM: LLMConfig{
			MaxTokens: 800,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
