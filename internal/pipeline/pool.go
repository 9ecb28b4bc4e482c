package pipeline

import (
	"context"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/telemetry"
)

type loadResult struct {
	item core.WorkItem
	err  error
}

// loadAll loads paths on a pool of threads workers. Loaded items are
// returned in completion order together with the number of dropped items.
func (r *Runner) loadAll(ctx context.Context, threads int, paths []string) ([]core.WorkItem, int) {
	jobs := make(chan string, len(paths))
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	results := make(chan loadResult, len(paths))
	done := r.spawn(telemetry.PoolIO, min(threads, max(1, len(paths))), func() {
		for path := range jobs {
			r.throttle(ctx)
			item, err := r.load(path)
			results <- loadResult{item: item, err: err}
		}
	})
	go func() {
		<-done
		close(results)
	}()

	loaded := make([]core.WorkItem, 0, len(paths))
	dropped := 0
	for res := range results {
		if res.err != nil {
			dropped++
			r.progress.Tick(false)
			continue
		}
		loaded = append(loaded, res.item)
	}
	return loaded, dropped
}

// processAll reduces items on a pool of procs workers, in completion order.
func (r *Runner) processAll(procs int, items []core.WorkItem) []core.ItemResult {
	jobs := make(chan core.WorkItem, len(items))
	for _, it := range items {
		jobs <- it
	}
	close(jobs)

	results := make(chan core.ItemResult, len(items))
	done := r.spawn(telemetry.PoolCPU, min(procs, max(1, len(items))), func() {
		for item := range jobs {
			results <- r.process(item)
		}
	})
	go func() {
		<-done
		close(results)
	}()

	out := make([]core.ItemResult, 0, len(items))
	for res := range results {
		r.progress.Tick(res.OK())
		out = append(out, res)
	}
	return out
}

// ChunkSize returns the number of paths handed to a fused worker at once.
// Zero or negative configured means derive it from n and procs.
func ChunkSize(configured, n, procs int) int {
	if configured > 0 {
		return configured
	}
	return max(1, n/(max(1, procs)*8))
}

type span struct{ start, end int }

type slot struct {
	res     core.ItemResult
	dropped bool
}

// mapChunks loads and processes paths in chunks on procs workers. Every
// index is written by exactly one worker, so the output keeps submission
// order without locking.
func (r *Runner) mapChunks(ctx context.Context, procs int, paths []string) ([]core.ItemResult, int) {
	n := len(paths)
	chunk := ChunkSize(r.cfg.ChunkSize, n, procs)

	jobs := make(chan span, n/chunk+1)
	for i := 0; i < n; i += chunk {
		jobs <- span{start: i, end: min(i+chunk, n)}
	}
	close(jobs)

	slots := make([]slot, n)
	done := r.spawn(telemetry.PoolCPU, min(procs, max(1, len(jobs))), func() {
		for s := range jobs {
			for i := s.start; i < s.end; i++ {
				r.throttle(ctx)
				item, err := r.load(paths[i])
				if err != nil {
					slots[i].dropped = true
					r.progress.Tick(false)
					continue
				}
				slots[i].res = r.process(item)
				r.progress.Tick(slots[i].res.OK())
			}
		}
	})
	<-done

	items := make([]core.ItemResult, 0, n)
	dropped := 0
	for _, s := range slots {
		if s.dropped {
			dropped++
			continue
		}
		items = append(items, s.res)
	}
	return items, dropped
}
