package dataset

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("dataset: iterator closed")

// LoaderOptions configure a Loader.
type LoaderOptions struct {
	BatchSize int // default 1
	Workers   int // 0 fetches samples inside Next
	Shuffle   bool
	Seed      uint64 // 0 draws a random seed per epoch
	Prefetch  int    // batches in flight, default 2*Workers
	Logger    *zap.SugaredLogger
}

// Loader produces epochs of batches from a Dataset.
type Loader struct {
	ds    *Dataset
	opts  LoaderOptions
	epoch atomic.Uint64
}

// NewLoader creates a Loader over ds.
func NewLoader(ds *Dataset, opts LoaderOptions) *Loader {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	if opts.Workers < 0 {
		opts.Workers = 0
	}
	if opts.Prefetch < 1 {
		opts.Prefetch = 2 * opts.Workers
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Loader{ds: ds, opts: opts}
}

// NumBatches returns the number of batches per epoch; the last one may be
// partial.
func (l *Loader) NumBatches() int {
	return (l.ds.Len() + l.opts.BatchSize - 1) / l.opts.BatchSize
}

// order returns the index order of an epoch. With a fixed seed it depends
// only on the seed and the epoch number.
func (l *Loader) order(epoch uint64) []int {
	n := l.ds.Len()
	if !l.opts.Shuffle {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		return perm
	}
	seed := l.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, epoch)).Perm(n)
}

// Epoch starts a pass over every logical index. The returned Iterator must
// be closed.
func (l *Loader) Epoch(ctx context.Context) *Iterator {
	epoch := l.epoch.Add(1) - 1
	perm := l.order(epoch)

	batches := make([][]int, 0, l.NumBatches())
	for start := 0; start < len(perm); start += l.opts.BatchSize {
		end := min(start+l.opts.BatchSize, len(perm))
		batches = append(batches, perm[start:end])
	}

	ctx, cancel := context.WithCancel(ctx)
	it := &Iterator{
		ds:      l.ds,
		batches: batches,
		ctx:     ctx,
		cancel:  cancel,
	}
	l.opts.Logger.Debugw("epoch started", "epoch", epoch, "batches", len(batches), "workers", l.opts.Workers)
	if l.opts.Workers > 0 {
		it.start(l.opts.Workers, l.opts.Prefetch)
	}
	return it
}

type job struct {
	batch int
	slot  int
	index int
}

type result struct {
	job
	sample Sample
	err    error
}

// Iterator yields the batches of one epoch in order. It is not safe for
// concurrent use.
type Iterator struct {
	ds      *Dataset
	batches [][]int
	next    int
	err     error

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	wg        sync.WaitGroup

	results chan result
	slots   chan struct{}
	pending map[int][]Sample
	filled  map[int]int
}

// start runs one producer feeding workers goroutines. At most prefetch
// batches are dispatched ahead of Next.
func (it *Iterator) start(workers, prefetch int) {
	jobs := make(chan job)
	it.results = make(chan result, workers)
	it.slots = make(chan struct{}, prefetch)
	it.pending = make(map[int][]Sample)
	it.filled = make(map[int]int)

	it.wg.Add(1)
	go func() {
		defer it.wg.Done()
		defer close(jobs)
		for b, indices := range it.batches {
			select {
			case it.slots <- struct{}{}:
			case <-it.ctx.Done():
				return
			}
			for slot, idx := range indices {
				select {
				case jobs <- job{batch: b, slot: slot, index: idx}:
				case <-it.ctx.Done():
					return
				}
			}
		}
	}()

	for w := 0; w < workers; w++ {
		it.wg.Add(1)
		go func() {
			defer it.wg.Done()
			for j := range jobs {
				s, err := it.ds.Get(j.index)
				select {
				case it.results <- result{job: j, sample: s, err: err}:
				case <-it.ctx.Done():
					return
				}
			}
		}()
	}
}

// Next returns the next batch, or io.EOF once the epoch is complete. Any
// other error ends the epoch.
func (it *Iterator) Next() (*Batch, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.next >= len(it.batches) {
		return nil, it.fail(io.EOF)
	}
	if err := it.ctx.Err(); err != nil {
		return nil, it.fail(err)
	}

	var (
		samples []Sample
		err     error
	)
	if it.results == nil {
		samples, err = it.fetch(it.batches[it.next])
	} else {
		samples, err = it.collect(it.next)
	}
	if err != nil {
		return nil, it.fail(err)
	}

	it.next++
	return Collate(samples), nil
}

func (it *Iterator) fetch(indices []int) ([]Sample, error) {
	samples := make([]Sample, len(indices))
	for i, idx := range indices {
		if err := it.ctx.Err(); err != nil {
			return nil, err
		}
		s, err := it.ds.Get(idx)
		if err != nil {
			return nil, err
		}
		samples[i] = s
	}
	return samples, nil
}

// collect gathers worker results until batch b is complete, keeping
// results of later batches for subsequent calls.
func (it *Iterator) collect(b int) ([]Sample, error) {
	want := len(it.batches[b])
	for it.filled[b] < want {
		select {
		case r := <-it.results:
			if r.err != nil {
				return nil, r.err
			}
			if it.pending[r.batch] == nil {
				it.pending[r.batch] = make([]Sample, len(it.batches[r.batch]))
			}
			it.pending[r.batch][r.slot] = r.sample
			it.filled[r.batch]++
		case <-it.ctx.Done():
			return nil, it.ctx.Err()
		}
	}

	samples := it.pending[b]
	delete(it.pending, b)
	delete(it.filled, b)
	<-it.slots
	return samples, nil
}

func (it *Iterator) fail(err error) error {
	it.err = err
	it.Close()
	return err
}

// Close stops outstanding prefetch work and waits for the workers to exit.
// Batches in flight are discarded.
func (it *Iterator) Close() error {
	it.closeOnce.Do(func() {
		if it.err == nil {
			it.err = ErrClosed
		}
		it.cancel()
		it.wg.Wait()
	})
	return nil
}
