package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_EXTRACT_SUBJECT", "")
	t.Setenv("NATS_SUMMARIZE_SUBJECT", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("LLM_MAX_TOKENS", "")

	cfg := Load()
	if cfg.NATSExtractSubject != "journal.extract" {
		t.Fatalf("expected default extract subject, got %q", cfg.NATSExtractSubject)
	}
	if cfg.NATSSummarizeSubject != "evidence.summarize" {
		t.Fatalf("expected default summarize subject, got %q", cfg.NATSSummarizeSubject)
	}
	if cfg.RateLimitRPS != 10 {
		t.Fatalf("expected default rate limit 10 rps, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("expected default burst 20, got %d", cfg.RateLimitBurst)
	}
	if cfg.LLMMaxTokens != 8192 {
		t.Fatalf("expected default max tokens 8192, got %d", cfg.LLMMaxTokens)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_MODEL", "claude-haiku-3-5")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("BREAKER_ENABLED", "false")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")

	cfg := Load()
	if cfg.AnthropicModel != "claude-haiku-3-5" {
		t.Fatalf("expected model override, got %q", cfg.AnthropicModel)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
	if cfg.RetryMaxAttempts != 5 {
		t.Fatalf("expected 5 retry attempts, got %d", cfg.RetryMaxAttempts)
	}
}

func TestLoadFallsBackOnBadNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("BREAKER_FAILURE_RATIO", "most")

	cfg := Load()
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("expected fallback burst 20, got %d", cfg.RateLimitBurst)
	}
	if cfg.BreakerFailureRatio != 0.6 {
		t.Fatalf("expected fallback ratio 0.6, got %v", cfg.BreakerFailureRatio)
	}
}
