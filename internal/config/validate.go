package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}
	if !c.Storage.InMemory && c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir must be set when storage is on disk")
	}

	if err := c.Tracker.validate(); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	return nil
}

func (t *TrackerConfig) validate() error {
	if t.DailyQuota <= 0 {
		return fmt.Errorf("daily_quota must be > 0 (got %d)", t.DailyQuota)
	}
	if t.StaleAfter <= 0 {
		return fmt.Errorf("stale_after must be > 0 (got %v)", t.StaleAfter)
	}
	if t.AssumedShift <= 0 {
		return fmt.Errorf("assumed_shift must be > 0 (got %v)", t.AssumedShift)
	}
	// A healed day must still count as stale-free on the next load.
	if t.AssumedShift > t.StaleAfter {
		return fmt.Errorf("assumed_shift (%v) must not exceed stale_after (%v)", t.AssumedShift, t.StaleAfter)
	}
	return nil
}
