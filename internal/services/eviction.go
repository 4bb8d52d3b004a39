package services

import (
	"errors"
	"sort"
	"studymate/internal/models"
	"studymate/internal/storage"
)

// WriteFunc attempts to persist a full session list.
type WriteFunc func(sessions []models.ChatSession) error

type EvictionResult struct {
	Saved          bool
	Evicted        []string
	ImagesStripped bool
	// Sessions is the list the last write was attempted with.
	Sessions []models.ChatSession
	Err      error
}

// Evict recovers from a full store after a write of sessions failed. It
// drops the other sessions oldest first, retrying the write after each
// removal, then strips the images of the protected session and retries
// once more. A write error other than ErrQuotaExceeded stops it at once.
// The input slice is not modified.
func Evict(sessions []models.ChatSession, protectedID string, attemptWrite WriteFunc) EvictionResult {
	var res EvictionResult

	candidates := make([]int, 0, len(sessions))
	for i, s := range sessions {
		if s.ID != protectedID {
			candidates = append(candidates, i)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return sessions[candidates[a]].LastModified < sessions[candidates[b]].LastModified
	})

	removed := make(map[int]bool, len(candidates))
	for _, idx := range candidates {
		removed[idx] = true
		res.Evicted = append(res.Evicted, sessions[idx].ID)
		res.Sessions = without(sessions, removed)

		err := attemptWrite(res.Sessions)
		if err == nil {
			res.Saved = true
			return res
		}
		if !errors.Is(err, storage.ErrQuotaExceeded) {
			res.Err = err
			return res
		}
		res.Err = err
	}

	res.Sessions = without(sessions, removed)
	for i := range res.Sessions {
		if res.Sessions[i].ID != protectedID {
			continue
		}
		stripped := res.Sessions[i].Clone()
		if stripped.StripImages() {
			res.ImagesStripped = true
		}
		res.Sessions[i] = stripped
	}

	err := attemptWrite(res.Sessions)
	res.Saved = err == nil
	res.Err = err
	return res
}

func without(sessions []models.ChatSession, removed map[int]bool) []models.ChatSession {
	out := make([]models.ChatSession, 0, len(sessions)-len(removed))
	for i, s := range sessions {
		if !removed[i] {
			out = append(out, s)
		}
	}
	return out
}
