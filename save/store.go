package save

import (
	"fmt"
	"sync"

	"github.com/milk9111/encounter/encounter"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	encountersObject = "encounters"
	formatVersion    = 1
)

// File is one saved fight: the boss and every live minion.
type File struct {
	Version int                `yaml:"version"`
	Tick    int                `yaml:"tick"`
	Boss    encounter.Snapshot `yaml:"boss"`
	Minions []Minion           `yaml:"minions,omitempty"`
}

type Minion struct {
	Slot     int                `yaml:"slot"`
	Snapshot encounter.Snapshot `yaml:"snapshot"`
}

// Store persists save files through gdata. Without a manager it keeps them
// in memory for the lifetime of the process.
type Store struct {
	manager *gdata.Manager
	log     *zap.Logger

	mu     sync.Mutex
	memory map[string][]byte
}

// Open creates a Store for appName. A failure to open the platform store is
// logged and the Store falls back to memory.
func Open(appName string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn("save store unavailable, keeping saves in memory", zap.String("app", appName), zap.Error(err))
		manager = nil
	}
	return NewStore(manager, log)
}

func NewStore(manager *gdata.Manager, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{manager: manager, log: log, memory: map[string][]byte{}}
}

// Persistent reports whether saves survive the process.
func (s *Store) Persistent() bool {
	return s != nil && s.manager != nil
}

func (s *Store) Save(slot string, f File) error {
	if s == nil {
		return fmt.Errorf("save: nil store")
	}
	if slot == "" {
		return fmt.Errorf("save: empty slot name")
	}
	f.Version = formatVersion
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("save: marshal %s: %w", slot, err)
	}
	if s.manager == nil {
		s.mu.Lock()
		s.memory[slot] = data
		s.mu.Unlock()
	} else if err := s.manager.SaveObjectProp(encountersObject, slot, data); err != nil {
		return fmt.Errorf("save: write %s: %w", slot, err)
	}
	s.log.Info("encounter saved",
		zap.String("slot", slot),
		zap.String("boss", f.Boss.Definition),
		zap.Int("tick", f.Tick),
		zap.Int("minions", len(f.Minions)),
	)
	return nil
}

// Load returns the save in slot. ok is false when the slot is empty.
func (s *Store) Load(slot string) (f File, ok bool, err error) {
	if s == nil {
		return File{}, false, fmt.Errorf("save: nil store")
	}
	data, ok, err := s.read(slot)
	if err != nil || !ok {
		return File{}, ok, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, false, fmt.Errorf("save: unmarshal %s: %w", slot, err)
	}
	if f.Version != formatVersion {
		return File{}, false, fmt.Errorf("save: %s has version %d, want %d", slot, f.Version, formatVersion)
	}
	return f, true, nil
}

func (s *Store) read(slot string) ([]byte, bool, error) {
	if s.manager == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		data, ok := s.memory[slot]
		return data, ok, nil
	}
	if !s.manager.ObjectPropExists(encountersObject, slot) {
		return nil, false, nil
	}
	data, err := s.manager.LoadObjectProp(encountersObject, slot)
	if err != nil {
		return nil, false, fmt.Errorf("save: read %s: %w", slot, err)
	}
	return data, true, nil
}
