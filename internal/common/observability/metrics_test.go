package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoop_RecordSearchIsSafe(t *testing.T) {
	var nilObs *Observability
	assert.NotPanics(t, func() {
		nilObs.RecordSearch(context.Background(), "fresh", "ok", time.Second)
		Noop().RecordSearch(context.Background(), "fresh", "ok", time.Second)
		Noop().Shutdown()
	})
}
