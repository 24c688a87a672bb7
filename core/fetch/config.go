package fetch

// Config holds configuration for outbound requests to tracking services.
type Config struct {
	// TimeoutSeconds bounds a single attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxAttempts is the attempt ceiling per call, including the first one.
	MaxAttempts int `mapstructure:"max_attempts" default:"10"`
	// BackoffStepMS is the linear backoff step; attempt n waits n*step.
	BackoffStepMS int `mapstructure:"backoff_step_ms" default:"1000"`
	// Concurrency is the number of in-flight requests a pagination or
	// batch walk may issue.
	Concurrency int `mapstructure:"concurrency" default:"6"`
	// RequestsPerSecond throttles each host. Zero disables throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"0"`
	// Burst is the limiter bucket size when throttling is enabled.
	Burst int `mapstructure:"burst" default:"1"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"tracker-comparer/1.0"`
}

// CookieConfig holds raw Cookie header values for services that need a
// signed-in session.
type CookieConfig struct {
	// Steam is sent to steamcommunity.com.
	Steam string `mapstructure:"steam" default:""`
	// Exophase is sent to exophase.com and its API host.
	Exophase string `mapstructure:"exophase" default:""`
	// MetaGamerScore is sent to metagamerscore.com.
	MetaGamerScore string `mapstructure:"metagamerscore" default:""`
	// TrueSteamAchievements is sent to truesteamachievements.com.
	TrueSteamAchievements string `mapstructure:"truesteamachievements" default:""`
}

// Hosts maps each configured cookie to the host suffix it belongs to.
func (c CookieConfig) Hosts() map[string]string {
	out := make(map[string]string)
	add := func(host, value string) {
		if value != "" {
			out[host] = value
		}
	}
	add("steamcommunity.com", c.Steam)
	add("exophase.com", c.Exophase)
	add("metagamerscore.com", c.MetaGamerScore)
	add("truesteamachievements.com", c.TrueSteamAchievements)
	return out
}
