package migrate

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "missing driver", mutate: func(c *Config) { c.Database.Driver = "" }, wantErr: true},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "missing base url", mutate: func(c *Config) { c.Site.BaseURL = "" }, wantErr: true},
		{name: "malformed base url", mutate: func(c *Config) { c.Site.BaseURL = "not a url" }, wantErr: true},
		{name: "negative concurrency", mutate: func(c *Config) { c.Concurrency = -1 }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAlgoliaConfigValidate(t *testing.T) {
	cfg := AlgoliaConfig{AppID: "APP", APIKey: "key", Index: "articles"}
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.APIKey = ""
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
