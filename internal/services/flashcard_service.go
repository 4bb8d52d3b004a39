package services

import (
	"fmt"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/storage"
	"sync"
)

// Deck is the active flashcard state with the position a resumed review
// continues from.
type Deck struct {
	models.FlashcardState
	NextIndex int  `json:"nextIndex"`
	Complete  bool `json:"complete"`
}

func newDeck(state models.FlashcardState) Deck {
	return Deck{FlashcardState: state, NextIndex: state.NextIndex(), Complete: state.Complete()}
}

type FlashcardServiceInterface interface {
	Get() (Deck, bool)
	Replace(topic string, cards []models.Flashcard) (Deck, error)
	Mark(index int, status models.CardStatus) (Deck, error)
	ResetDeck() (Deck, error)
	Clear() error
}

type FlashcardService struct {
	mu     sync.Mutex
	store  storage.RecordStoreInterface
	logger providers.Logger
}

func NewFlashcardService(store storage.RecordStoreInterface, logger providers.Logger) FlashcardServiceInterface {
	return &FlashcardService{store: store, logger: logger}
}

func (fs *FlashcardService) Get() (Deck, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	state := fs.load()
	return newDeck(state), !state.IsEmpty()
}

// Replace installs a new deck. Cards without a status start as new.
func (fs *FlashcardService) Replace(topic string, cards []models.Flashcard) (Deck, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range cards {
		if cards[i].Status == "" {
			cards[i].Status = models.CardNew
		}
	}
	state := models.FlashcardState{Topic: topic, Cards: cards}
	return newDeck(state), fs.save(state)
}

func (fs *FlashcardService) Mark(index int, status models.CardStatus) (Deck, error) {
	if !status.Valid() {
		return Deck{}, fmt.Errorf("%w: %q", ErrInvalidCardStatus, status)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.load()
	if state.IsEmpty() {
		return newDeck(state), ErrNoActiveState
	}
	if index < 0 || index >= len(state.Cards) {
		return newDeck(state), fmt.Errorf("%w: %d", ErrCardOutOfRange, index)
	}
	state.Cards[index].Status = status
	return newDeck(state), fs.save(state)
}

// ResetDeck marks every card as new again.
func (fs *FlashcardService) ResetDeck() (Deck, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.load()
	if state.IsEmpty() {
		return newDeck(state), ErrNoActiveState
	}
	for i := range state.Cards {
		state.Cards[i].Status = models.CardNew
	}
	return newDeck(state), fs.save(state)
}

func (fs *FlashcardService) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.store.Remove(storage.KeyFlashcards)
}

func (fs *FlashcardService) load() models.FlashcardState {
	return storage.LoadOrDefault(fs.store, storage.KeyFlashcards, func() models.FlashcardState {
		return models.FlashcardState{}
	})
}

func (fs *FlashcardService) save(state models.FlashcardState) error {
	if state.IsEmpty() {
		return nil
	}
	if err := fs.store.Save(storage.KeyFlashcards, state); err != nil {
		fs.logger.Errorf(providers.TypeStorage, "Failed to save flashcards: %s", err)
		return err
	}
	return nil
}
