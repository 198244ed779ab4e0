package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server port
	Port string `env:"PORT" envDefault:"5250"`

	Geocode struct {
		// Naver cloud platform geocoding credentials
		ClientID     string `env:"NAVER_CLIENT_ID" envDefault:"gs49gWmH9D2UbRfED2r_"`
		ClientSecret string `env:"NAVER_CLIENT_SECRET" envDefault:"2onfjVGamO"`

		// Timeout for the tier-1 geocoding call (in seconds)
		Timeout int `env:"GEOCODE_TIMEOUT" envDefault:"10"`
	}

	Providers struct {
		// Timeout for each listing platform call (in seconds)
		Timeout int `env:"PROVIDER_TIMEOUT" envDefault:"10"`

		// Cap on the merged result list across all platforms
		MergedCap int `env:"MERGED_RESULT_CAP" envDefault:"100"`

		// Degree radius beyond which candidates are dropped for
		// house-number-level queries
		PreciseRadius float64 `env:"PRECISE_RADIUS_DEG" envDefault:"0.005"`
	}

	Registry struct {
		// data.go.kr service key (URL-encoded form)
		ServiceKey string `env:"MOLIT_SERVICE_KEY" envDefault:"zPJlRCZmK%2FAHQ9ZXvM3tZPfC0EDZKOvNKBjm7z10fmntfhPcnGajlo1eu%2BYKMbul9vZRTqOzl%2BTx4nxM4995pg%3D%3D"`

		// Timeout for registry calls (in seconds)
		Timeout int `env:"MOLIT_TIMEOUT" envDefault:"15"`

		// Month shift for the default DEAL_YMD; the registry publishes
		// with a delay so the previous month is the useful default
		DealYmdOffset int `env:"MOLIT_DEAL_YMD_OFFSET" envDefault:"-1"`

		// Cap on returned transactions
		ResultCap int `env:"MOLIT_RESULT_CAP" envDefault:"50"`
	}

	Cache struct {
		// Redis address; empty selects the in-process cache
		RedisAddr string `env:"REDIS_ADDR"`

		// Response cache TTL (in seconds)
		TTL int `env:"CACHE_TTL" envDefault:"300"`
	}

	// Path of the offline listing dataset backing /search
	DatasetPath string `env:"DATASET_PATH" envDefault:"data/properties.json"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
