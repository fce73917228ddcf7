package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	HTTP struct {
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
		// Write timeout must cover the worst-case batch: every URL retried to
		// exhaustion while the pool is saturated.
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"5m"`
		IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
	}
	Browser struct {
		ExecutablePath string `env:"BROWSER_EXECUTABLE_PATH"`
		UserAgent      string `env:"BROWSER_USER_AGENT" env-default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"`
		MaxSessions    int    `env:"BROWSER_MAX_SESSIONS" env-default:"2"`
		ScreenshotDir  string `env:"BROWSER_SCREENSHOT_DIR"`
	}
	Extractor struct {
		NavigationTimeout    time.Duration `env:"EXTRACTOR_NAVIGATION_TIMEOUT" env-default:"20s"`
		RenderTimeout        time.Duration `env:"EXTRACTOR_RENDER_TIMEOUT" env-default:"10s"`
		MaxAttempts          int           `env:"EXTRACTOR_MAX_ATTEMPTS" env-default:"3"`
		RetryInitialInterval time.Duration `env:"EXTRACTOR_RETRY_INITIAL_INTERVAL" env-default:"1s"`
		RetryMaxInterval     time.Duration `env:"EXTRACTOR_RETRY_MAX_INTERVAL" env-default:"8s"`
		RetryMultiplier      float64       `env:"EXTRACTOR_RETRY_MULTIPLIER" env-default:"2.0"`
		BatchConcurrency     int           `env:"EXTRACTOR_BATCH_CONCURRENCY" env-default:"2"`
		MaxBatchSize         int           `env:"EXTRACTOR_MAX_BATCH_SIZE" env-default:"10"`
	}
	RateLimit struct {
		// PerMinute of 0 disables client rate limiting.
		PerMinute int `env:"RATE_LIMIT_PER_MINUTE" env-default:"30"`
		Burst     int `env:"RATE_LIMIT_BURST" env-default:"5"`
	}
	Telegram struct {
		Token  string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID int64  `env:"TELEGRAM_CHAT_ID"`
	}
	Canary struct {
		URL      string        `env:"CANARY_URL"`
		Interval time.Duration `env:"CANARY_INTERVAL" env-default:"30m"`
	}
}

var (
	once    sync.Once
	cfg     *Config
	readErr error
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			readErr = fmt.Errorf("failed to read configuration: %w\n%s", err, help)
			cfg = nil
		}
	})
	return cfg, readErr
}
