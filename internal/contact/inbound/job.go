package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goroutine"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/uid"
	"go.uber.org/atomic"
)

const defaultScanInterval = time.Hour

// RegisterBirthdayJob starts the periodic birthday scan.
//
// The scan runs once at startup and then on every tick until ctx is
// canceled. A run that is still going when the next tick fires is skipped.
func RegisterBirthdayJob(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	if !cfg.GetBool("modules.contact.birthday_scan.enabled") {
		return
	}

	interval := cfg.GetMinute("modules.contact.birthday_scan.interval_minutes")
	if interval <= 0 {
		interval = defaultScanInterval
	}

	running := atomic.NewBool(false)

	scan := func(pCtx context.Context) {
		if !running.CompareAndSwap(false, true) {
			slog.WarnContext(pCtx, "birthday scan still running, skipping tick")
			return
		}
		defer running.Store(false)

		sCtx := instrument.SetCorrelationID(pCtx, uuid.Generate())
		sCtx, span := ins.Tracer("contact.inbound.job").Start(sCtx, "BirthdayScan")
		defer span.End()

		out, err := uc.ScanBirthdays(sCtx)
		if err != nil {
			slog.ErrorContext(sCtx, "birthday scan failed", "error", err)
			return
		}

		slog.InfoContext(sCtx, "birthday scan finished", "matched", out.Matched, "published", out.Published)
	}

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(pCtx, "Running job for birthday scan", "interval", interval.String())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		scan(pCtx)

		for {
			select {
			case <-pCtx.Done():
				return nil
			case <-ticker.C:
				scan(pCtx)
			}
		}
	})
}
