package model_test

import (
	"testing"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dates.Parse(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}
