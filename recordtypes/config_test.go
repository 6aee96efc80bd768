package recordtypes

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
)

func TestConfigMapRoundTrip(t *testing.T) {
	ctx := errs.EContext()
	c := NewConfig()
	c.Strings().Set("host", "localhost")
	c.Strings().Set("env", "prod")
	c.Numbers().Set("retries", 3)
	c.Numbers().Set("timeout_ms", 500)

	dict, err := codec.Encode(ctx, c)
	if err != nil {
		t.Fatalf("TestConfigMapRoundTrip: Encode() error: %v", err)
	}

	c2 := NewConfig()
	if _, err := codec.Decode(ctx, c2, dict, nil); err != nil {
		t.Fatalf("TestConfigMapRoundTrip: Decode() error: %v", err)
	}

	if v, _ := c2.Strings().Get("host"); v != "localhost" {
		t.Errorf("TestConfigMapRoundTrip: strings[host] = %q, want localhost", v)
	}
	if v, _ := c2.Strings().Get("env"); v != "prod" {
		t.Errorf("TestConfigMapRoundTrip: strings[env] = %q, want prod", v)
	}
	if v, _ := c2.Numbers().Get("retries"); v != 3 {
		t.Errorf("TestConfigMapRoundTrip: numbers[retries] = %d, want 3", v)
	}
	if v, _ := c2.Numbers().Get("timeout_ms"); v != 500 {
		t.Errorf("TestConfigMapRoundTrip: numbers[timeout_ms] = %d, want 500", v)
	}
}

func TestConfigSyncModeTombstoneDelete(t *testing.T) {
	ctx := errs.EContext()
	c := NewConfig()
	c.Strings().Set("host", "localhost")
	c.Strings().Set("env", "prod")
	c.AsBase().ClearChanged(false)

	c.Strings().Delete("env")
	c.Strings().Set("region", "us-east-1")

	delta, err := codec.Encode(ctx, c, codec.WithOnlyChanged(true))
	if err != nil {
		t.Fatalf("TestConfigSyncModeTombstoneDelete: Encode(only_changed) error: %v", err)
	}

	strings, ok := delta["strings"].(map[string]any)
	if !ok {
		t.Fatalf("TestConfigSyncModeTombstoneDelete: delta[strings] = %v (%T), want map[string]any", delta["strings"], delta["strings"])
	}
	if v, ok := strings["env"]; !ok || v != nil {
		t.Errorf("TestConfigSyncModeTombstoneDelete: strings[env] = %v, want explicit null tombstone", v)
	}
	if v, ok := strings["region"]; !ok || v != "us-east-1" {
		t.Errorf("TestConfigSyncModeTombstoneDelete: strings[region] = %v, want us-east-1", v)
	}

	target := NewConfig()
	target.Strings().Set("host", "localhost")
	target.Strings().Set("env", "prod")

	if _, err := codec.Decode(ctx, target, delta, nil, codec.WithMode(codec.ModeSync)); err != nil {
		t.Fatalf("TestConfigSyncModeTombstoneDelete: Decode(sync) error: %v", err)
	}

	if _, ok := target.Strings().Get("env"); ok {
		t.Errorf("TestConfigSyncModeTombstoneDelete: env still present after sync-mode null merge")
	}
	if v, ok := target.Strings().Get("host"); !ok || v != "localhost" {
		t.Errorf("TestConfigSyncModeTombstoneDelete: host = %q, ok=%v, want localhost untouched", v, ok)
	}
	if v, ok := target.Strings().Get("region"); !ok || v != "us-east-1" {
		t.Errorf("TestConfigSyncModeTombstoneDelete: region = %q, ok=%v, want us-east-1", v, ok)
	}
}
