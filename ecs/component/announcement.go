package component

// Announcement is on-screen text requested by a cue, such as a mood name.
type Announcement struct {
	Text   string
	Frames int
}

var AnnouncementComponent = NewComponent[Announcement]()

// CueLog keeps the most recent cues for display and for headless runs.
type CueLog struct {
	Entries []CueEntry
	Limit   int
}

type CueEntry struct {
	Tick  int
	Owner uint64
	Cue   string
	Name  string
}

var CueLogComponent = NewComponent[CueLog]()
