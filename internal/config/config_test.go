package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults applied",
			env:  map[string]string{},
			want: &Config{
				DatabasePath: "./data/droplink.db",
				LogLevel:     "info",
				PageLimit:    30,
				HTTPTimeout:  30 * time.Second,
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"DROPLINK_SERVER_URL":  "https://push.example.org",
				"DROPLINK_CLIENT_TOKEN": "X9Y8Z7W6",
				"DROPLINK_SERVER_NAME": "home",
				"DATABASE_PATH":        "/tmp/droplink.db",
				"LOG_LEVEL":            "debug",
				"PAGE_LIMIT":           "50",
				"HTTP_TIMEOUT_SECONDS": "10",
			},
			want: &Config{
				ServerURL:    "https://push.example.org",
				ClientToken:  "X9Y8Z7W6",
				ServerName:   "home",
				DatabasePath: "/tmp/droplink.db",
				LogLevel:     "debug",
				PageLimit:    50,
				HTTPTimeout:  10 * time.Second,
			},
		},
		{
			name:    "page limit not a number",
			env:     map[string]string{"PAGE_LIMIT": "lots"},
			wantErr: true,
		},
		{
			name:    "page limit out of range",
			env:     map[string]string{"PAGE_LIMIT": "500"},
			wantErr: true,
		},
		{
			name:    "invalid timeout",
			env:     map[string]string{"HTTP_TIMEOUT_SECONDS": "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear relevant env vars
			for _, key := range []string{
				"DROPLINK_SERVER_URL", "DROPLINK_CLIENT_TOKEN", "DROPLINK_SERVER_NAME",
				"DATABASE_PATH", "LOG_LEVEL", "PAGE_LIMIT", "HTTP_TIMEOUT_SECONDS",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
