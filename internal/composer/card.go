package composer

import (
	"errors"
	"fmt"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

type CardState int

const (
	CardLoading CardState = iota
	CardReady
	CardError
	// CardMissing is terminal: the category has no source yet.
	CardMissing
)

func (s CardState) String() string {
	switch s {
	case CardLoading:
		return "loading"
	case CardReady:
		return "ready"
	case CardError:
		return "error"
	case CardMissing:
		return "missing"
	}
	return fmt.Sprintf("CardState(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid card transition")

// Card is a rendered slot. Placeholder stories start in their placeholder
// state, real stories start ready.
type Card struct {
	Story model.Story
	State CardState
}

func NewCard(s model.Story) Card {
	if !s.IsPlaceholder {
		return Card{Story: s, State: CardReady}
	}
	switch s.PlaceholderState {
	case model.PlaceholderLoading:
		return Card{Story: s, State: CardLoading}
	case model.PlaceholderError:
		return Card{Story: s, State: CardError}
	}
	return Card{Story: s, State: CardMissing}
}

// Resolve moves a loading card to ready with the arrived story.
func (c *Card) Resolve(s model.Story) error {
	if c.State != CardLoading {
		return fmt.Errorf("%w: resolve from %s", ErrInvalidTransition, c.State)
	}
	c.Story, c.State = s, CardReady
	return nil
}

// Fail moves a loading card to error.
func (c *Card) Fail() error {
	if c.State != CardLoading {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, c.State)
	}
	c.State = CardError
	return nil
}

// Retry moves an error card back to loading.
func (c *Card) Retry() error {
	if c.State != CardError {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, c.State)
	}
	c.State = CardLoading
	return nil
}

func Cards(stories []model.Story) []Card {
	out := make([]Card, len(stories))
	for i, s := range stories {
		out[i] = NewCard(s)
	}
	return out
}
