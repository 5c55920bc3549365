package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions controls batching and buffering of the async writer.
type AsyncOptions struct {
	BufferSize     int           // Max batches queued in memory before falling back to sync writes
	BatchSize      int           // Target records per batch
	BatchTimeout   time.Duration // Max time to hold a partial batch
	StorageTimeout time.Duration // Per-batch storage timeout
}

// AsyncWriter batches records in a background goroutine before handing them
// to a Storage, reducing storage round-trips under write-heavy load.
type AsyncWriter struct {
	storage    Storage
	recordChan chan recordBatch
	mu         sync.RWMutex
	closed     bool
	closeOnce  sync.Once
	wg         sync.WaitGroup
	options    AsyncOptions
}

type recordBatch struct {
	records []Record
	result  chan error
}

// NewAsyncWriter wraps storage with async batching. The returned close
// function flushes pending records and stops the worker.
func NewAsyncWriter(storage Storage, opts AsyncOptions) (*AsyncWriter, func(context.Context) error) {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout == 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout == 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	aw := &AsyncWriter{
		storage:    storage,
		recordChan: make(chan recordBatch, opts.BufferSize),
		options:    opts,
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store implements Storage. Records are queued for batching; a full buffer
// falls back to a synchronous write so no record is lost.
func (aw *AsyncWriter) Store(ctx context.Context, rec Record) error {
	result := make(chan error, 1)

	// The read lock pairs with the write lock in Close so no enqueue can race
	// the channel being closed. The send below never blocks, so the lock is
	// released before waiting on the batch result.
	aw.mu.RLock()
	if aw.closed {
		aw.mu.RUnlock()
		return ErrStorageNotAvailable
	}

	select {
	case aw.recordChan <- recordBatch{records: []Record{rec}, result: result}:
		aw.mu.RUnlock()
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		aw.mu.RUnlock()
		return aw.storage.StoreBatch(ctx, []Record{rec})
	}
}

// StoreBatch implements Storage by delegating directly to the underlying storage.
func (aw *AsyncWriter) StoreBatch(ctx context.Context, recs []Record) error {
	return aw.storage.StoreBatch(ctx, recs)
}

// Close flushes pending records and stops the worker.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.closeOnce.Do(func() {
		aw.mu.Lock()
		aw.closed = true
		aw.mu.Unlock()
		close(aw.recordChan)
	})

	flushed := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Record, 0, aw.options.BatchSize)
	pending := make([]chan error, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	// flush writes the accumulated batch with an isolated context so client
	// request timeouts cannot cascade into storage writes.
	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		err := aw.storage.StoreBatch(ctx, batch)
		cancel()

		for _, result := range pending {
			select {
			case result <- err:
			default:
			}
		}

		batch = batch[:0]
		pending = pending[:0]
	}

	for {
		select {
		case rb, ok := <-aw.recordChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rb.records...)
			pending = append(pending, rb.result)
			if len(batch) >= aw.options.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
