// Package favorites keeps the saved trips. The whole collection is the unit
// of persistence: it is read once at startup and rewritten after every change.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"viajeia/internal/db"
	"viajeia/internal/logger"
	"viajeia/internal/model"
)

// SlotName is the storage slot holding the serialized collection.
const SlotName = "viajeia_favoritos"

// Storage reads and overwrites the serialized collection.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Store is the in-memory favorites collection backed by Storage. It is safe
// for concurrent use.
type Store struct {
	storage Storage
	log     *logger.Logger
	now     func() time.Time
	newID   func() string

	mu        sync.RWMutex
	favorites []model.Favorite
}

// NewStore creates an empty store. Call Load to read persisted favorites.
func NewStore(storage Storage, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		storage: storage,
		log:     log.Named("favorites"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Load reads the persisted collection. Missing or malformed data yields an
// empty collection; only storage failures are returned.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Read()
	if errors.Is(err, db.ErrSlotEmpty) {
		s.favorites = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	favorites, err := decode(data)
	if err != nil {
		s.log.Warn("discarding stored favorites", zap.Error(err))
		s.favorites = nil
		return nil
	}
	s.favorites = favorites
	s.log.Debug("favorites loaded", zap.Int("count", len(favorites)))
	return nil
}

func decode(data []byte) ([]model.Favorite, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var favorites []model.Favorite
	if err := json.Unmarshal(data, &favorites); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceParse, err)
	}
	return favorites, nil
}

// List returns a copy of every favorite in insertion order.
func (s *Store) List() []model.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() []model.Favorite {
	out := make([]model.Favorite, len(s.favorites))
	for i, f := range s.favorites {
		out[i] = cloneFavorite(f)
	}
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites)
}

// Get returns the favorite with the given id.
func (s *Store) Get(id string) (model.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.favorites {
		if f.ID == id {
			return cloneFavorite(f), nil
		}
	}
	return model.Favorite{}, fmt.Errorf("favorite %s: %w", id, model.ErrNotFound)
}

func (s *Store) exists(destination string) bool {
	destination = strings.TrimSpace(destination)
	for _, f := range s.favorites {
		if strings.EqualFold(strings.TrimSpace(f.Destination), destination) {
			return true
		}
	}
	return false
}

// Save records a new favorite and persists the collection.
func (s *Store) Save(destination string, profile model.TripProfile, history []model.ConversationEntry, photos []string) (model.Favorite, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return model.Favorite{}, fmt.Errorf("no destination to save: %w", model.ErrValidation)
	}

	date := profile.Date
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	fav := model.Favorite{
		ID:          s.newID(),
		Destination: destination,
		Date:        date,
		Budget:      profile.Budget,
		Preference:  profile.Preference,
		SavedAt:     s.now().UTC(),
		History:     model.CloneHistory(history),
		Photos:      append([]string{}, photos...),
	}
	if fav.History == nil {
		fav.History = []model.ConversationEntry{}
	}

	if err := s.Insert(fav); err != nil {
		return model.Favorite{}, err
	}
	return cloneFavorite(fav), nil
}

// Insert adds a fully built favorite, as when undoing a removal.
func (s *Store) Insert(fav model.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(fav.Destination) {
		return fmt.Errorf("%s is already saved: %w", fav.Destination, model.ErrDuplicate)
	}

	next := append(s.snapshot(), cloneFavorite(fav))
	if err := s.persist(next); err != nil {
		return err
	}
	s.favorites = next
	s.log.Info("favorite saved", zap.String("id", fav.ID), zap.String("destination", fav.Destination))
	return nil
}

// Remove deletes the favorite with the given id and persists the collection.
// Confirmation is the caller's job.
func (s *Store) Remove(id string) (model.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, f := range s.favorites {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Favorite{}, fmt.Errorf("favorite %s: %w", id, model.ErrNotFound)
	}

	all := s.snapshot()
	removed := all[idx]
	next := append(all[:idx:idx], all[idx+1:]...)
	if err := s.persist(next); err != nil {
		return model.Favorite{}, err
	}
	s.favorites = next
	s.log.Info("favorite removed", zap.String("id", id), zap.String("destination", removed.Destination))
	return removed, nil
}

// Restore returns the profile and conversation needed to reopen a favorite.
// The favorite itself is kept.
func Restore(fav model.Favorite) (model.TripProfile, []model.ConversationEntry) {
	history := model.CloneHistory(fav.History)
	if history == nil {
		history = []model.ConversationEntry{}
	}
	return fav.Profile(), history
}

// persist writes next; the in-memory collection is only replaced by the
// caller once this succeeds.
func (s *Store) persist(next []model.Favorite) error {
	if next == nil {
		next = []model.Favorite{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.storage.Write(data); err != nil {
		s.log.Error("favorites write failed", zap.Error(err))
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

func cloneFavorite(f model.Favorite) model.Favorite {
	out := f
	out.History = model.CloneHistory(f.History)
	out.Photos = append([]string(nil), f.Photos...)
	if f.Photos != nil && out.Photos == nil {
		out.Photos = []string{}
	}
	return out
}
