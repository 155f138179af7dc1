package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// AutoSave writes a snapshot to s after workspace events until ctx is done.
// Bursts of events within debounce are coalesced into one write. A final
// write is attempted on shutdown.
func AutoSave(ctx context.Context, w *workspace.Workspace, s Store, debounce time.Duration, log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	events := w.Subscribe(ctx)
	timer := time.NewTimer(debounce)
	timer.Stop()
	dirty := false

	save := func() {
		dirty = false
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Save(saveCtx, w.Snapshot()); err != nil {
			log.Warnw("save workspace", "error", err)
		}
	}

	for {
		select {
		case _, ok := <-events:
			if !ok {
				save()
				return
			}
			if !dirty {
				dirty = true
				timer.Reset(debounce)
			}
		case <-timer.C:
			save()
		case <-ctx.Done():
			save()
			return
		}
	}
}
