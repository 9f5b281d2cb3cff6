package relay

import (
	"log"
	"sync"
	"time"

	"stardrift/store"
)

// Events handles relay event tracking with batched background writes
type Events struct {
	db     *store.DB
	events chan store.Event
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewEvents creates and starts the event background writer
func NewEvents(db *store.DB) *Events {
	e := &Events{
		db:     db,
		events: make(chan store.Event, 1024),
		stop:   make(chan struct{}),
	}
	e.wg.Add(1)
	go e.writer()
	return e
}

// Track enqueues an event for async persistence (non-blocking)
func (e *Events) Track(evtType, pilot, detail string) {
	select {
	case e.events <- store.Event{
		Type:      evtType,
		Pilot:     pilot,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full, drop the event rather than blocking a pump
	}
}

// Stop gracefully shuts down the event writer
func (e *Events) Stop() {
	close(e.stop)
	e.wg.Wait()
}

// writer batches and writes events to the database
func (e *Events) writer() {
	defer e.wg.Done()

	batch := make([]store.Event, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-e.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				e.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				e.flush(batch)
				batch = batch[:0]
			}
		case <-e.stop:
			close(e.events)
			for evt := range e.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				e.flush(batch)
			}
			return
		}
	}
}

func (e *Events) flush(batch []store.Event) {
	if e.db == nil || len(batch) == 0 {
		return
	}
	if err := e.db.InsertEvents(batch); err != nil {
		log.Printf("events: flush error: %v", err)
	}
}
