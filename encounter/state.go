package encounter

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// ID identifies an encounter inside a Registry. Hosts usually use their
// entity handle.
type ID uint64

// StateTag identifies the state an encounter is running.
type StateTag uint8

const (
	StateIdle StateTag = iota
	StateReposition
	StateWindup
	StateExecute
	StateRecovery
	StateEnraged
	StateDrift
	StateFakeDeath
	StateAwakening
	StateTrueDeath
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateReposition: "reposition",
	StateWindup:     "windup",
	StateExecute:    "execute",
	StateRecovery:   "recovery",
	StateEnraged:    "enraged",
	StateDrift:      "drift",
	StateFakeDeath:  "fake_death",
	StateAwakening:  "awakening",
	StateTrueDeath:  "true_death",
}

func (s StateTag) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText encodes the tag by name so snapshots stay readable.
func (s StateTag) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StateTag) UnmarshalText(b []byte) error {
	name := string(b)
	for i, n := range stateNames {
		if n == name {
			*s = StateTag(i)
			return nil
		}
	}
	return fmt.Errorf("encounter: unknown state %q", name)
}

// attacking reports whether the tag belongs to an attack in progress.
func (s StateTag) attacking() bool {
	return s == StateReposition || s == StateWindup || s == StateExecute || s == StateRecovery
}

func (s StateTag) dying() bool {
	return s == StateFakeDeath || s == StateTrueDeath
}

// Commit holds what a windup locked at its commit tick.
type Commit struct {
	Locked  bool      `yaml:"locked"`
	Dir     cp.Vector `yaml:"dir"`
	Point   cp.Vector `yaml:"point"`
	Bearing float64   `yaml:"bearing"`
}

// Anchor holds the endpoints of a reposition arc.
type Anchor struct {
	From cp.Vector `yaml:"from"`
	To   cp.Vector `yaml:"to"`
}

// State is the persisted register of an encounter. Tag and Timer always
// describe the same state: Timer counts ticks since Tag was last written.
type State struct {
	Tag          StateTag `yaml:"tag"`
	Timer        int      `yaml:"timer"`
	AttackID     string   `yaml:"attack_id"`
	SubWave      int      `yaml:"sub_wave"`
	LastAttackID string   `yaml:"last_attack_id"`
	Attacks      int      `yaml:"attacks"`
	// Age counts every advanced tick and drives hover and orbit phase.
	Age int `yaml:"age"`
	// Volleys counts minion barrages a boss has commanded; a minion keeps
	// the parent count it last answered in SyncedVolleys.
	Volleys       int `yaml:"volleys"`
	SyncedVolleys int `yaml:"synced_volleys"`

	Mood      int    `yaml:"mood"`
	Announced uint64 `yaml:"announced"`

	Enraged      bool     `yaml:"enraged"`
	EnrageFrames int      `yaml:"enrage_frames"`
	CalmFrames   int      `yaml:"calm_frames"`
	Resume       StateTag `yaml:"resume"`

	Dying         bool `yaml:"dying"`
	DeathTimer    int  `yaml:"death_timer"`
	FakeDeathUsed bool `yaml:"fake_death_used"`
	Invulnerable  bool `yaml:"invulnerable"`
	Removed       bool `yaml:"removed"`

	Commit Commit `yaml:"commit"`
	Anchor Anchor `yaml:"anchor"`
}

func (s *State) announced(mood int) bool {
	if mood < 0 || mood >= 64 {
		return true
	}
	return s.Announced&(1<<uint(mood)) != 0
}

func (s *State) latchAnnounced(mood int) {
	if mood < 0 || mood >= 64 {
		return
	}
	s.Announced |= 1 << uint(mood)
}

// Snapshot is everything needed to resume an encounter on another host or
// after a reload.
type Snapshot struct {
	Definition string    `yaml:"definition"`
	State      State     `yaml:"state"`
	Health     int       `yaml:"health"`
	Position   cp.Vector `yaml:"position"`
	Velocity   cp.Vector `yaml:"velocity"`
}
