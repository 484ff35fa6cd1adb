package httpclient

import (
	"testing"
	"time"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Name != "httpclient" {
		t.Errorf("expected name httpclient, got %s", cfg.Name)
	}
	if cfg.DefaultTimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("expected default timeout %d, got %d", DefaultTimeoutSeconds, cfg.DefaultTimeoutSeconds)
	}
	if cfg.MaxTimeoutSeconds != MaxTimeoutSeconds {
		t.Errorf("expected max timeout %d, got %d", MaxTimeoutSeconds, cfg.MaxTimeoutSeconds)
	}
}

func TestConfigApplyDefaults_LowMax(t *testing.T) {
	cfg := Config{MaxTimeoutSeconds: 30}
	cfg.ApplyDefaults()
	if cfg.DefaultTimeoutSeconds != 30 {
		t.Errorf("expected default timeout clamped to 30, got %d", cfg.DefaultTimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	e, err := New(Config{MaxTimeoutSeconds: 30})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer e.Close()
	if got := e.Config().DefaultTimeoutSeconds; got != 30 {
		t.Errorf("engine default timeout = %d, want 30", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"max only", Config{MaxTimeoutSeconds: 5}, false},
		{"default above max", Config{DefaultTimeoutSeconds: 30, MaxTimeoutSeconds: 10}, true},
		{"valid headers", Config{Headers: map[string]string{"X-Team": "payments"}}, false},
		{"invalid header name", Config{Headers: map[string]string{"Bad Header": "x"}}, true},
		{"empty header value", Config{Headers: map[string]string{"X-Empty": ""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveTimeout(t *testing.T) {
	cfg := Config{DefaultTimeoutSeconds: 30, MaxTimeoutSeconds: 60}
	tests := []struct {
		seconds int
		want    time.Duration
		wantErr bool
	}{
		{0, 30 * time.Second, false},
		{1, time.Second, false},
		{60, 60 * time.Second, false},
		{61, 60 * time.Second, false},
		{10000, 60 * time.Second, false},
		{-1, 0, true},
	}
	for _, tt := range tests {
		got, err := cfg.resolveTimeout(tt.seconds)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveTimeout(%d) error = %v", tt.seconds, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveTimeout(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
