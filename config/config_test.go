package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	v := newTestViper(t, `
llm:
  providers:
    - name: gemini
      enabled: true
      priority: 1
      api_key: key
      model: gemini-2.5-flash
`)

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPServer.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPServer.Port)
	}
	if cfg.Conversation.RetryTimeout != 20*time.Second {
		t.Errorf("expected 20s retry timeout, got %v", cfg.Conversation.RetryTimeout)
	}
	if cfg.Conversation.Timezone != "UTC" {
		t.Errorf("expected UTC timezone, got %q", cfg.Conversation.Timezone)
	}
	if cfg.Schema.Path != "./config/intents.yaml" {
		t.Errorf("unexpected schema path %q", cfg.Schema.Path)
	}
	if len(cfg.LLM.Providers) != 1 || cfg.LLM.Providers[0].APIKey != "key" {
		t.Errorf("unexpected providers %+v", cfg.LLM.Providers)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestFromViper_ExpandsProviderKeyFromEnv(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "from-env")
	v := newTestViper(t, `
llm:
  providers:
    - name: gemini
      enabled: true
      priority: 1
      api_key: ${TEST_GEMINI_KEY}
      model: gemini-2.5-flash
`)

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Providers[0].APIKey != "from-env" {
		t.Errorf("expected env-expanded key, got %q", cfg.LLM.Providers[0].APIKey)
	}
}

func TestValidateLLMConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LLMConfig
		wantErr bool
	}{
		{name: "empty", cfg: LLMConfig{}, wantErr: true},
		{
			name: "missing model",
			cfg:  LLMConfig{Providers: []ProviderConfig{{Name: "gemini", Enabled: true, Priority: 1}}},
			wantErr: true,
		},
		{
			name: "duplicate priority",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "gemini", Model: "m", Enabled: true, Priority: 1},
				{Name: "openai", Model: "m", Enabled: true, Priority: 1},
			}},
			wantErr: true,
		},
		{
			name:    "none enabled",
			cfg:     LLMConfig{Providers: []ProviderConfig{{Name: "gemini", Model: "m"}}},
			wantErr: true,
		},
		{
			name: "valid",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "gemini", Model: "m", Enabled: true, Priority: 1},
				{Name: "openai", Model: "m", Enabled: false},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLLMConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLLMConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"http://a.com, http://b.com", " ", "http://c.com"})
	if len(got) != 3 || got[1] != "http://b.com" {
		t.Errorf("unexpected split %v", got)
	}
}
