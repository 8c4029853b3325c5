package ctxlogger

import (
	"context"
	"testing"

	"github.com/smallbiznis/invoicer/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestForTask_AddsCorrelationAndTask(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetServiceName("invoicer")

	ctx, log := ForTask(context.Background(), zap.New(core), "invoice.pdf")
	log.Info("done")

	cid := correlation.ExtractCorrelationID(ctx)
	assert.NotEmpty(t, cid)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, cid, fields["correlation_id"])
		assert.Equal(t, "invoice.pdf", fields["task"])
		assert.Equal(t, "invoicer", fields["service_name"])
	}
}
