package cfg

import "testing"

type testConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Enabled bool   `mapstructure:"enabled"`
}

func (c *testConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
}

func TestDecode_Basic(t *testing.T) {
	input := map[string]any{"name": "test-service", "port": 9000, "enabled": true}

	var c testConfig
	if err := Decode(input, &c); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if c.Name != "test-service" || c.Port != 9000 || !c.Enabled {
		t.Errorf("got %+v", c)
	}
}

func TestDecode_ApplyDefaults(t *testing.T) {
	var c testConfig
	if err := Decode(map[string]any{"name": "test-service"}, &c); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if c.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", c.Port)
	}
}

func TestDecodeWithUnused_ReportsSortedKeys(t *testing.T) {
	input := map[string]any{
		"name":        "test-service",
		"port":        9000,
		"unknown_key": "value",
		"another_bad": 123,
	}

	var c testConfig
	unused, err := DecodeWithUnused(input, &c)
	if err != nil {
		t.Fatalf("DecodeWithUnused failed: %v", err)
	}
	if len(unused) != 2 || unused[0] != "another_bad" || unused[1] != "unknown_key" {
		t.Fatalf("unused = %v, want [another_bad unknown_key]", unused)
	}
	if c.Name != "test-service" {
		t.Errorf("Name = %q, want test-service", c.Name)
	}
}

func TestDecodeWithUnused_NoUnusedKeys(t *testing.T) {
	var c testConfig
	unused, err := DecodeWithUnused(map[string]any{"name": "test-service", "port": 9000}, &c)
	if err != nil {
		t.Fatalf("DecodeWithUnused failed: %v", err)
	}
	if len(unused) != 0 {
		t.Errorf("unused = %v, want none", unused)
	}
}

func TestMustDecodeStrict_FailsOnUnusedKeys(t *testing.T) {
	var c testConfig
	err := MustDecodeStrict(map[string]any{"name": "test-service", "unknown_key": "value"}, &c)
	if err == nil {
		t.Fatal("expected failure on unused keys")
	}
	if err.Error() != "cfg: unused config keys: [unknown_key]" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestMustDecodeStrict_PassesWithNoUnusedKeys(t *testing.T) {
	var c testConfig
	err := MustDecodeStrict(map[string]any{"name": "test-service", "port": 9000, "enabled": true}, &c)
	if err != nil {
		t.Fatalf("MustDecodeStrict should have passed: %v", err)
	}
}
