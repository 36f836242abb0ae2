package handlers

import (
	"testing"
	"time"

	"gopts/internal/config"
)

func TestOpTimeout(t *testing.T) {
	defer func() { config.AppEnv.RequestTimeout = 0 }()

	config.AppEnv.RequestTimeout = 0
	if got := opTimeout(); got != 5*time.Second {
		t.Errorf("default: got %v", got)
	}

	config.AppEnv.RequestTimeout = 2 * time.Second
	if got := opTimeout(); got != 2*time.Second {
		t.Errorf("configured: got %v", got)
	}
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"Reason":    "reason",
		"MOQ":       "mOQ",
		"productId": "productId",
	}
	for in, want := range cases {
		if got := lowerCamel(in); got != want {
			t.Errorf("%q: got %q, want %q", in, got, want)
		}
	}
}
