package session

import (
	"time"

	"github.com/verte-zerg/docquiz/internal/model"
)

// CardTransition is the pause between rating a card and showing the next.
const CardTransition = 150 * time.Millisecond

// Deck runs a flashcard review. Its timer is informational and never ends
// the session.
type Deck struct {
	cards    []model.Flashcard
	index    int
	flipped  bool
	pending  bool
	known    int
	unknown  int
	timer    *Timer
	finished bool
	result   model.Result
}

// NewDeck starts a review over cards. An empty deck finishes immediately.
func NewDeck(cards []model.Flashcard) *Deck {
	d := &Deck{
		cards: cards,
		timer: NewTimer(0),
	}
	if len(cards) == 0 {
		d.finish()
	}
	return d
}

// Current returns the card being shown.
func (d *Deck) Current() (model.Flashcard, bool) {
	if d.index >= len(d.cards) {
		return model.Flashcard{}, false
	}
	return d.cards[d.index], true
}

// Index returns the zero-based position of the current card.
func (d *Deck) Index() int { return d.index }

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Flipped reports whether the back of the current card is shown.
func (d *Deck) Flipped() bool { return d.flipped }

// Known returns the number of cards rated known.
func (d *Deck) Known() int { return d.known }

// Unknown returns the number of cards rated unknown.
func (d *Deck) Unknown() int { return d.unknown }

// Timer exposes the elapsed-time counter for display.
func (d *Deck) Timer() *Timer { return d.timer }

// Finished reports whether the result has been produced.
func (d *Deck) Finished() bool { return d.finished }

// Pending reports whether a rated card is waiting for Advance.
func (d *Deck) Pending() bool { return d.pending }

// Result returns the final result once Finished is true.
func (d *Deck) Result() (model.Result, bool) {
	return d.result, d.finished
}

// Flip toggles the reveal state of the current card.
func (d *Deck) Flip() {
	if d.finished || d.pending {
		return
	}
	d.flipped = !d.flipped
}

// Rate records the current card as known or unknown and hides it. After the
// last card the deck finishes; otherwise the caller shows the next card by
// calling Advance after CardTransition. Rating while a card is pending is
// ignored.
func (d *Deck) Rate(known bool) Step {
	if d.finished || d.pending {
		return StepIgnored
	}
	if known {
		d.known++
	} else {
		d.unknown++
	}
	d.flipped = false
	if d.index >= len(d.cards)-1 {
		d.finish()
		return StepFinished
	}
	d.pending = true
	return StepNext
}

// Advance shows the next card after a rating.
func (d *Deck) Advance() bool {
	if d.finished || !d.pending {
		return false
	}
	d.pending = false
	d.index++
	return true
}

// Tick forwards a one-second tick to the timer.
func (d *Deck) Tick() TickEvent {
	if d.finished {
		return TickIgnored
	}
	return d.timer.Tick()
}

// Stop halts the timer without producing a result.
func (d *Deck) Stop() {
	d.timer.Stop()
}

func (d *Deck) finish() {
	d.timer.Stop()
	d.finished = true
	d.pending = false
	d.result = model.Result{
		Type:        model.ModeFlashcard,
		Known:       d.known,
		Unknown:     d.unknown,
		Total:       len(d.cards),
		TimeElapsed: d.timer.Elapsed(),
	}
}
