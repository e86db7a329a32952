package cache

import "time"

// Purger is implemented by caches that can drop expired entries.
type Purger interface {
	PurgeExpired() int
}

// Janitor periodically purges expired entries from registered caches.
// Owned by the composition root; Stop must be called on shutdown.
type Janitor struct {
	caches []Purger
	stop   chan struct{}
	done   chan struct{}
}

// NewJanitor creates a Janitor with no registered caches.
func NewJanitor() *Janitor {
	return &Janitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache for periodic cleanup. Not safe to call after Start.
func (j *Janitor) Register(c Purger) {
	j.caches = append(j.caches, c)
}

// Start begins the cleanup loop in a background goroutine.
func (j *Janitor) Start(interval time.Duration) {
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range j.caches {
				c.PurgeExpired()
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the cleanup loop and waits for it to exit.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
