package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestSetup_WithoutExporter(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Setup(ctx, Options{ServiceName: "storefront"}, zap.NewNop())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "op")
	require.True(t, span.SpanContext().IsValid())
	require.True(t, span.SpanContext().IsSampled())
	span.End()

	require.NoError(t, shutdown(ctx))
}
