package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	sinkBatchSize     = 50
	sinkFlushInterval = 5 * time.Second
)

// DBSink is an slog.Handler that buffers ERROR records and writes them to
// system_logs in batches. Handlers derived with WithAttrs share one buffer.
type DBSink struct {
	*sinkBuffer
	attrs []slog.Attr
}

type sinkBuffer struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []models.SystemLog

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewDBSink(db *gorm.DB) *DBSink {
	s := newDBSink(db)
	s.ticker = time.NewTicker(sinkFlushInterval)
	go s.flushLoop()
	return s
}

func newDBSink(db *gorm.DB) *DBSink {
	return &DBSink{sinkBuffer: &sinkBuffer{
		db:      db,
		pending: make([]models.SystemLog, 0, sinkBatchSize),
		done:    make(chan struct{}),
	}}
}

func (b *sinkBuffer) flushLoop() {
	for {
		select {
		case <-b.ticker.C:
			b.flush()
		case <-b.done:
			b.flush()
			return
		}
	}
}

func (b *sinkBuffer) flush() {
	batch := b.drain()
	if len(batch) == 0 {
		return
	}
	if err := b.db.CreateInBatches(batch, sinkBatchSize).Error; err != nil {
		// Warn is below the sink's level, so this does not loop back here.
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

func (b *sinkBuffer) drain() []models.SystemLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}
	batch := b.pending
	b.pending = make([]models.SystemLog, 0, sinkBatchSize)
	return batch
}

// Stop flushes what is buffered and ends the background loop.
func (b *sinkBuffer) Stop() {
	b.stopOnce.Do(func() {
		if b.ticker != nil {
			b.ticker.Stop()
		}
		close(b.done)
	})
}

// Buffered reports how many records are waiting to be written.
func (b *sinkBuffer) Buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (s *DBSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (s *DBSink) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			v := a.Value.String()
			entry.UserID = &v
		case "method":
			entry.Method = a.Value.String()
		case "path":
			entry.Path = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range s.attrs {
		collect(a)
	}
	record.Attrs(collect)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s.mu.Lock()
	s.pending = append(s.pending, entry)
	full := len(s.pending) >= sinkBatchSize
	s.mu.Unlock()

	if full {
		go s.flush()
	}
	return nil
}

// pendingEntries returns a copy of the buffered rows.
func (b *sinkBuffer) pendingEntries() []models.SystemLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.SystemLog(nil), b.pending...)
}

func (s *DBSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DBSink{
		sinkBuffer: s.sinkBuffer,
		attrs:      append(append([]slog.Attr{}, s.attrs...), attrs...),
	}
}

func (s *DBSink) WithGroup(string) slog.Handler {
	return s
}
