package slots

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageslots/internal/platform/requestctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/pageslots/internal/slots"

// Slot returns a component that renders the active entries of slot name.
//
// The current path is read from the render context (see
// requestctx.WithPath) on every render; nothing is retained between renders.
func Slot(reader Reader, name string) templ.Component {
	return SlotWithDispatcher(Direct(reader), name)
}

// SlotWithDispatcher is Slot with a caller-provided dispatcher.
func SlotWithDispatcher(dispatcher Dispatcher, name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		path := requestctx.PathFromContext(ctx)
		ctx, span := otel.Tracer(tracerName).Start(ctx, "slots.render", trace.WithAttributes(
			attribute.String("slot.name", name),
			attribute.String("slot.path", path),
		))
		defer span.End()

		var mounts []Mount
		if dispatcher != nil {
			mounts = dispatcher.Dispatch(name, path)
		}
		span.SetAttributes(attribute.Int("slot.matched", len(mounts)))

		for i, mount := range mounts {
			component := mount.Component.Render(mount.Props)
			if component == nil {
				continue
			}
			if err := component.Render(ctx, w); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "render slot entry")
				return fmt.Errorf("render slot %q entry %d: %w", name, i, err)
			}
		}
		return nil
	})
}
