package speech

import (
	"context"
	"sync"

	"github.com/korzewarrior/smartkart/pkg/logger"
	"github.com/korzewarrior/smartkart/pkg/metrics"
)

// Utterance is a queued speech item. Interrupting utterances clear any
// pending (not yet started) items before enqueueing themselves; they never
// abort audio already playing.
type Utterance struct {
	Text      string
	Interrupt bool
}

// Speaker produces audio for one utterance, blocking until playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Queue serializes utterances through a single consumer so overlapping scan
// and button events never produce interleaved audio. Enqueue is safe from any
// goroutine and never blocks on playback.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []Utterance
	closed  bool

	speaker Speaker
	logg    *logger.Logger
	metrics *metrics.Metrics
	done    chan struct{}
}

func NewQueue(speaker Speaker, logg *logger.Logger, m *metrics.Metrics) *Queue {
	q := &Queue{
		speaker: speaker,
		logg:    logg,
		metrics: m,
		done:    make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.drain()
	return q
}

// Enqueue adds an utterance. Fire and forget: playback errors are the
// worker's concern.
func (q *Queue) Enqueue(u Utterance) {
	if u.Text == "" {
		return
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if u.Interrupt && len(q.pending) > 0 {
		q.metrics.AddUtterancesDropped(len(q.pending))
		q.pending = q.pending[:0]
	}
	q.pending = append(q.pending, u)
	q.metrics.SetSpeechQueueDepth(len(q.pending))
	q.mu.Unlock()

	q.cond.Signal()
}

// Depth reports the number of pending utterances.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops the worker after the current utterance finishes. Pending items
// are discarded.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.pending = nil
	q.mu.Unlock()

	q.cond.Broadcast()
	<-q.done
}

func (q *Queue) drain() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.metrics.SetSpeechQueueDepth(len(q.pending))
		q.mu.Unlock()

		q.metrics.IncUtteranceSpoken()
		if err := q.speaker.Speak(context.Background(), next.Text); err != nil && q.logg != nil {
			ctx := q.logg.WithComponent(context.Background(), "speech")
			ctx = q.logg.WithField(ctx, "utterance", next.Text)
			q.logg.Warn(q.logg.WithField(ctx, "error", err.Error()), "speech playback failed")
		}
	}
}
