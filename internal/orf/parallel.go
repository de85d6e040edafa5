package orf

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// WorkItem holds one record queued for an ORF search.
type WorkItem struct {
	Seq    int
	Record seq.Record
}

// WorkResult holds the ORFs found in a single record.
type WorkResult struct {
	Seq    int
	Record seq.Record
	ORFs   []ORF
}

// RecordORFs pairs a record name with its ORFs.
type RecordORFs struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	ORFs   []ORF  `json:"orfs"`
}

// Finder runs ORF searches over many records.
type Finder struct {
	params  Params
	workers int
	logger  *zap.Logger
}

// NewFinder creates a finder with the given search parameters.
func NewFinder(p Params) *Finder {
	return &Finder{
		params: p,
		logger: zap.NewNop(),
	}
}

// SetWorkers sets the worker pool size. 0 uses runtime.NumCPU().
func (f *Finder) SetWorkers(n int) {
	f.workers = n
}

// SetLogger sets the logger for progress messages.
func (f *Finder) SetLogger(l *zap.Logger) {
	f.logger = l
}

// ParallelFind searches work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
func (f *Finder) ParallelFind(ctx context.Context, items <-chan WorkItem) <-chan WorkResult {
	workers := f.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := WorkResult{
					Seq:    item.Seq,
					Record: item.Record,
					ORFs:   Find(item.Record.Sequence, f.params),
				}
				select {
				case results <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// FindAll searches every record and returns results in input order.
func (f *Finder) FindAll(ctx context.Context, records []seq.Record) ([]RecordORFs, error) {
	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i, r := range records {
			select {
			case items <- WorkItem{Seq: i, Record: r}:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make([]RecordORFs, 0, len(records))
	total := 0
	err := OrderedCollect(f.ParallelFind(ctx, items), func(r WorkResult) error {
		out = append(out, RecordORFs{
			Name:   r.Record.Name,
			Length: len(r.Record.Sequence),
			ORFs:   r.ORFs,
		})
		total += len(r.ORFs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.logger.Debug("orf search finished",
		zap.Int("records", len(records)),
		zap.Int("orfs", total))
	return out, nil
}
