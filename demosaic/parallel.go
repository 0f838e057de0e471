package demosaic

import (
	"runtime"
	"sync"
)

// eachRow splits [0, rows) into at most workers contiguous chunks and runs
// fn on each concurrently, returning after all complete.  workers < 1 uses
// one worker per CPU.  Chunks never overlap, so fn may write freely within
// its range.
func eachRow(rows, workers int, fn func(lo, hi int)) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}
	chunk := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < rows; lo += chunk {
		hi := lo + chunk
		if hi > rows {
			hi = rows
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
