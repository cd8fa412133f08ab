package scope

import "sync"

// fanout joins a set of independent reads. First error wins; the
// builders treat any branch failure as fatal for the whole snapshot so
// a partially-populated scope is never returned.
type fanout struct {
	wg  sync.WaitGroup
	mu  sync.Mutex
	err error
}

func (f *fanout) do(fn func() error) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := fn(); err != nil {
			f.mu.Lock()
			if f.err == nil {
				f.err = err
			}
			f.mu.Unlock()
		}
	}()
}

func (f *fanout) wait() error {
	f.wg.Wait()
	return f.err
}
