// Package session drives the interactive classification of candidate words.
// Each candidate moves from pending to exactly one of the terminal states,
// known or unknown, and the matching store append is durable before the next
// candidate is offered. Stopping mid-list is safe: classified words stay
// committed and the remainder is re-offered on the next run.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/japaniel/pdf2words/pkg/store"
	"github.com/japaniel/pdf2words/pkg/words"
)

// Verdict is a terminal classification state for a candidate word.
type Verdict int

const (
	// Known means the reader already knows the word.
	Known Verdict = iota + 1
	// Unknown means the word goes into the study deck records.
	Unknown
)

// Decision is the outcome for one candidate. Translation is only meaningful
// for Unknown verdicts and may be empty.
type Decision struct {
	Verdict     Verdict
	Translation string
}

// ErrStopped is returned by a Decider to end the session early. It is not a
// failure: everything classified so far stays committed.
var ErrStopped = errors.New("classification session stopped")

// Decider supplies classification decisions. Implementations may prompt a
// terminal, replay a batch file, or script answers in tests; the session makes
// no assumption about the input modality.
type Decider interface {
	Decide(ctx context.Context, c words.Candidate) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, c words.Candidate) (Decision, error)

// Decide implements Decider.
func (f DeciderFunc) Decide(ctx context.Context, c words.Candidate) (Decision, error) {
	return f(ctx, c)
}

// Outcome summarizes one classification session.
type Outcome struct {
	Offered int
	Known   int
	Unknown int
	// Pending counts candidates left unclassified by an early stop; they are
	// re-offered on the next run.
	Pending int
	Stopped bool
}

// Session classifies a list of pending candidates against a vocabulary store.
type Session struct {
	Store   *store.Store
	Decider Decider
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called after each committed decision with the number of
	// handled candidates and the total.
	OnProgress func(done, total int)
}

// NewSession returns a session over the given store and decider.
func NewSession(st *store.Store, d Decider) *Session {
	return &Session{Store: st, Decider: d}
}

// Run offers each candidate to the decider in order and commits every
// decision to the store before moving on. Candidates must already be filtered
// down to genuinely pending words. A Decider returning ErrStopped, or context
// cancellation, ends the session cleanly with the remainder pending; store
// errors abort with the partial outcome.
func (s *Session) Run(ctx context.Context, candidates []words.Candidate) (Outcome, error) {
	out := Outcome{Offered: len(candidates)}

	// Deciders that render progress can learn the list length up front.
	if st, ok := s.Decider.(interface{ SetTotal(int) }); ok {
		st.SetTotal(len(candidates))
	}

	for i, c := range candidates {
		select {
		case <-ctx.Done():
			out.Stopped = true
			out.Pending = len(candidates) - i
			return out, nil
		default:
		}

		decision, err := s.Decider.Decide(ctx, c)
		if err != nil {
			if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) {
				out.Stopped = true
				out.Pending = len(candidates) - i
				if s.Logger != nil {
					s.Logger.Printf("session stopped: %d classified, %d pending", i, out.Pending)
				}
				return out, nil
			}
			out.Pending = len(candidates) - i
			return out, fmt.Errorf("decide %q: %w", c.Word, err)
		}

		switch decision.Verdict {
		case Known:
			if err := s.Store.AppendKnown(c.Word); err != nil {
				out.Pending = len(candidates) - i
				return out, fmt.Errorf("append known %q: %w", c.Word, err)
			}
			out.Known++
		case Unknown:
			rec := store.Record{Word: c.Word, Translation: decision.Translation, Sentence: c.Sentence}
			if err := s.Store.AppendRecord(rec); err != nil {
				out.Pending = len(candidates) - i
				return out, fmt.Errorf("append record %q: %w", c.Word, err)
			}
			out.Unknown++
		default:
			out.Pending = len(candidates) - i
			return out, fmt.Errorf("decide %q: invalid verdict %d", c.Word, decision.Verdict)
		}

		if s.OnProgress != nil {
			s.OnProgress(i+1, len(candidates))
		}
	}
	return out, nil
}
