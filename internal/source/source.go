// Package source acquires agenda records, either by prompting the user or by
// reading a structured input file.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/core/config"
)

// Source produces agenda records one at a time. Next returns io.EOF once the
// source is exhausted. A *agenda.RowError means the current row was rejected
// and the source may be asked for the next one.
type Source interface {
	Next(ctx context.Context) (agenda.Record, error)
}

// Result describes how a Collect run ended.
type Result struct {
	// Skipped holds row errors that were logged and passed over under the
	// skip policy.
	Skipped []*agenda.RowError
}

// Collect drains src into list according to policy.
//
// Under ErrorPolicyStop the first row error ends ingestion and is returned;
// records already appended stay in list. Under ErrorPolicySkip row errors are
// recorded in the result and reading continues. Any other error is returned
// immediately.
func Collect(ctx context.Context, src Source, list *agenda.List, policy config.ErrorPolicy, logger zerolog.Logger) (Result, error) {
	var res Result

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec, err := src.Next(ctx)
		if err == nil {
			list.Append(rec)
			logger.Debug().
				Str("time", rec.Time).
				Str("subject", rec.Subject).
				Int("count", list.Len()).
				Msg("record added")
			continue
		}

		if errors.Is(err, io.EOF) {
			return res, nil
		}

		var rowErr *agenda.RowError
		if !errors.As(err, &rowErr) {
			return res, err
		}

		if policy == config.ErrorPolicySkip {
			logger.Warn().Err(rowErr).Int("line", rowErr.Line).Msg("skipping row")
			res.Skipped = append(res.Skipped, rowErr)
			continue
		}

		logger.Warn().Err(rowErr).Int("line", rowErr.Line).Int("kept", list.Len()).Msg("stopping at malformed row")
		return res, fmt.Errorf("read input: %w", rowErr)
	}
}
