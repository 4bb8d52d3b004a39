package models

import "fmt"

type CardStatus string

const (
	CardNew    CardStatus = "new"
	CardKnown  CardStatus = "known"
	CardReview CardStatus = "review"
)

func (s CardStatus) Valid() bool {
	return s == CardNew || s == CardKnown || s == CardReview
}

type Flashcard struct {
	ID     string     `json:"id" validate:"required"`
	Front  string     `json:"front"`
	Back   string     `json:"back"`
	Status CardStatus `json:"status"`
}

func (c Flashcard) Check() error {
	if !c.Status.Valid() {
		return fmt.Errorf("card %s: unknown status %q", c.ID, c.Status)
	}
	return nil
}

type FlashcardState struct {
	Topic string      `json:"topic"`
	Cards []Flashcard `json:"cards"`
}

func (f FlashcardState) IsEmpty() bool {
	return len(f.Cards) == 0
}

func (f FlashcardState) KnownCount() int {
	n := 0
	for _, c := range f.Cards {
		if c.Status == CardKnown {
			n++
		}
	}
	return n
}

func (f FlashcardState) Complete() bool {
	return len(f.Cards) > 0 && f.KnownCount() == len(f.Cards)
}

// NextIndex is where a resumed deck continues: the first card not yet
// known, or the last card when the whole deck is mastered.
func (f FlashcardState) NextIndex() int {
	for i, c := range f.Cards {
		if c.Status != CardKnown {
			return i
		}
	}
	if len(f.Cards) == 0 {
		return 0
	}
	return len(f.Cards) - 1
}
