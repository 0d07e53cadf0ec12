package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
		LLM:      LLMConfig{APIKey: "test-key"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}, LLM: LLMConfig{APIKey: "k"}}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "memory" {
		t.Errorf("default driver = %q, want memory", cfg.Database.Driver)
	}
	if cfg.Chunking.Size != 1000 || cfg.Chunking.Overlap != 200 {
		t.Errorf("chunking defaults = %d/%d, want 1000/200", cfg.Chunking.Size, cfg.Chunking.Overlap)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("top_k default = %d, want 4", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MemoryScoreThreshold != 0.30 {
		t.Errorf("memory threshold default = %v, want 0.30", cfg.Retrieval.MemoryScoreThreshold)
	}
	if cfg.Retrieval.DatabaseScoreThreshold != 0.25 {
		t.Errorf("database threshold default = %v, want 0.25", cfg.Retrieval.DatabaseScoreThreshold)
	}
}

func TestThresholdPerDriver(t *testing.T) {
	r := RetrievalConfig{MemoryScoreThreshold: 0.7, DatabaseScoreThreshold: 0.3}
	if got := r.Threshold("memory"); got != 0.7 {
		t.Errorf("memory threshold = %v", got)
	}
	if got := r.Threshold("redis"); got != 0.3 {
		t.Errorf("redis threshold = %v", got)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "chroma"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "redis"
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis driver without addrs")
	}
}

func TestValidate_OverlapMustBeSmallerThanSize(t *testing.T) {
	cfg := validConfig()
	cfg.Chunking.Size = 100
	cfg.Chunking.Overlap = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for overlap >= size")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCENT_TEST_KEY", "sk-123")

	in := []byte("api_key: ${DOCENT_TEST_KEY}\nmodel: ${DOCENT_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	want := "api_key: sk-123\nmodel: gpt-4o-mini\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
