package batch

import (
	"context"
	"time"
)

const (
	DefaultChunkSize  = 8
	DefaultChunkDelay = 100 * time.Millisecond
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer runs items in fixed-size chunks. Chunks are strictly sequential and
// separated by a fixed Delay; items inside a chunk are settled concurrently.
type Pacer struct {
	ChunkSize int
	Delay     time.Duration
	Sleep     SleepFunc
}

func NewPacer(chunkSize int, delay time.Duration) *Pacer {
	return &Pacer{ChunkSize: chunkSize, Delay: delay}
}

func (p *Pacer) chunkSize() int {
	if p == nil || p.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return p.ChunkSize
}

func (p *Pacer) sleep(ctx context.Context, d time.Duration) error {
	if p != nil && p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

// Chunk partitions items into groups of size. The last group may be shorter.
// size <= 0 yields a single group.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// RunPaced settles items chunk by chunk. There is no delay after the last chunk.
// If ctx ends between chunks, the remaining items settle with ctx.Err() so the
// result still has one outcome per item.
func RunPaced[In, Out any](ctx context.Context, p *Pacer, items []In, fn func(ctx context.Context, item In) (Out, error)) []Outcome[Out] {
	outcomes := make([]Outcome[Out], 0, len(items))
	chunks := Chunk(items, p.chunkSize())

	var delay time.Duration
	if p != nil {
		delay = p.Delay
	}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return appendFailed(outcomes, len(items)-len(outcomes), err)
		}

		outcomes = append(outcomes, SettleAll(ctx, chunk, 0, fn)...)

		if i < len(chunks)-1 && delay > 0 {
			if err := p.sleep(ctx, delay); err != nil {
				return appendFailed(outcomes, len(items)-len(outcomes), err)
			}
		}
	}
	return outcomes
}

func appendFailed[Out any](outcomes []Outcome[Out], n int, err error) []Outcome[Out] {
	for j := 0; j < n; j++ {
		outcomes = append(outcomes, Outcome[Out]{Err: err})
	}
	return outcomes
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
