package timeouts

import (
	"testing"
	"time"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 9 * time.Second})
	if got := Short(); got != 9*time.Second {
		t.Errorf("Short() = %v, want 9s", got)
	}
	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() = %v, want default %v", got, DefaultPing)
	}

	Reset()
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() after Reset = %v, want %v", got, DefaultShort)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)

	t.Setenv("SEEYOU_TIMEOUT_LONG", "45s")
	t.Setenv("SEEYOU_TIMEOUT_PING", "bogus")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("ConfigureFromEnv() = %d, want 1", n)
	}
	if got := Long(); got != 45*time.Second {
		t.Errorf("Long() = %v, want 45s", got)
	}
	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() = %v, want default", got)
	}
}
