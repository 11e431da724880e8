package moved

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
)

const tracerName = "github.com/Sumatoshi-tech/astmove/pkg/moved"

// Run executes the generators concurrently over their shared, finished
// project diff and concatenates their results in generator order. Each
// generator writes only into its own result slot.
func Run(ctx context.Context, gens ...Generator) ([]*diff.ASTDiff, error) {
	results := make([][]*diff.ASTDiff, len(gens))
	tr := otel.Tracer(tracerName)

	g, gCtx := errgroup.WithContext(ctx)

	for idx, gen := range gens {
		g.Go(func() error {
			_, span := tr.Start(gCtx, "astmove.moved."+gen.Name(),
				trace.WithAttributes(attribute.String("moved.generator", gen.Name())))
			defer span.End()

			if err := gCtx.Err(); err != nil {
				return fmt.Errorf("generator %s: %w", gen.Name(), err)
			}

			results[idx] = gen.Make()

			span.SetAttributes(attribute.Int("moved.diffs", len(results[idx])))

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}
