package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestLLMConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := LLMConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != LLMModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, LLMModeDisabled)
	}
	if cfg.Enabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestLLMConfig_OpenAIModeRequiresModel(t *testing.T) {
	cfg := LLMConfig{Mode: "openai", Model: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("openai mode without model should fail")
	}
	if !strings.Contains(err.Error(), "model is empty") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Model = "gpt-4o-mini"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("openai mode with model should pass: %v", err)
	}
	if !cfg.Enabled() {
		t.Error("openai mode should be enabled")
	}
}

func TestLLMConfig_InvalidMode(t *testing.T) {
	cfg := LLMConfig{Mode: "oracle", Model: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestSearchConfig_WorkersRange(t *testing.T) {
	for _, tc := range []struct {
		workers int
		ok      bool
	}{
		{0, false},
		{1, true},
		{8, true},
		{64, true},
		{65, false},
	} {
		cfg := SearchConfig{Workers: tc.workers}
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Errorf("workers=%d should pass: %v", tc.workers, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("workers=%d should fail validation", tc.workers)
		}
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("Address() = %q, want :9090", got)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_SectionValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}

	cfg = NewDefaultConfig()
	cfg.Search.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch search error")
	}

	cfg = NewDefaultConfig()
	cfg.LLM.Mode = "openai"
	cfg.LLM.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch llm error")
	}
}
