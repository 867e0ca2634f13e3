// Package gather implements the comparable-sales aggregation pipeline:
// concurrent source fan-out, address-keyed merging, recency filtering,
// relevance ranking, and summary generation.
package gather

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/source"
)

// Collect fans out the query to every source concurrently and concatenates
// the results in source order, so downstream merge tie-breaks stay
// deterministic regardless of completion order. A failing source contributes
// zero records; its failure is logged, never propagated. Each source gets
// exactly one attempt.
func Collect(ctx context.Context, sources []source.Source, q source.Query) []model.CandidateRecord {
	slots := make([][]model.CandidateRecord, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			records, err := src.Search(gctx, q)
			if err != nil {
				if errors.Is(err, source.ErrNotImplemented) {
					zap.L().Info("source platform not implemented, no data",
						zap.String("source", src.Name()),
						zap.Error(err),
					)
				} else {
					zap.L().Warn("source search failed, continuing without it",
						zap.String("source", src.Name()),
						zap.Error(err),
					)
				}
				return nil
			}
			slots[i] = records
			zap.L().Info("source search complete",
				zap.String("source", src.Name()),
				zap.Int("records", len(records)),
			)
			return nil
		})
	}
	_ = g.Wait() // goroutines always return nil; failures are absorbed above

	var raw []model.CandidateRecord
	for _, records := range slots {
		raw = append(raw, records...)
	}
	return raw
}
