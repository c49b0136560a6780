package world

import "github.com/OldJobobo/lantir/internal/report"

// Region is the accumulated known state of one hex. Leaf values reuse
// the report schema types; the merge decides which survive a re-import.
type Region struct {
	Coord         Coord              `json:"coord"`
	Terrain       string             `json:"terrain"`
	Province      string             `json:"province"`
	Population    report.Population  `json:"population"`
	Tax           int                `json:"tax"`
	Wages         report.Wages       `json:"wages"`
	Entertainment int                `json:"entertainment"`
	Settlement    *report.Settlement `json:"settlement,omitempty"`
	Products      []report.Item      `json:"products,omitempty"`
	Markets       report.Markets     `json:"markets"`
	Units         []report.Unit      `json:"units,omitempty"`
	Structures    []report.Structure `json:"structures,omitempty"`

	// Peeked regions are known only through a neighbour's exit list:
	// terrain and nothing else. A full snapshot clears the flag.
	Peeked bool `json:"peeked,omitempty"`

	FirstSeenTurn int `json:"first_seen_turn"`
	LastSeenTurn  int `json:"last_seen_turn"`
}

// FactionInfo records the last imported turn for a faction.
type FactionInfo struct {
	Name     string `json:"name"`
	LastTurn int    `json:"last_turn"`
}

// World maps hex coordinates to their last known region state. It is
// the single persisted aggregate: one owner, mutated only by Merge and
// the store's load, read by everything else.
type World struct {
	regions  map[Coord]*Region
	factions map[int]*FactionInfo
	events   map[Coord][]string
	dirty    bool
}

// New returns an empty world.
func New() *World {
	return &World{
		regions:  make(map[Coord]*Region),
		factions: make(map[int]*FactionInfo),
		events:   make(map[Coord][]string),
	}
}

// Region returns the known state at c, or nil if undiscovered.
func (w *World) Region(c Coord) *Region {
	return w.regions[c]
}

// SetRegion installs a region, keyed by its own coordinate. Used by the
// persistence layer when rebuilding a loaded world.
func (w *World) SetRegion(r *Region) {
	w.regions[r.Coord] = r
}

// Regions returns the live region map. Callers other than Merge and the
// store must treat it as read-only.
func (w *World) Regions() map[Coord]*Region {
	return w.regions
}

// Len returns the number of known regions, peeked stubs included.
func (w *World) Len() int {
	return len(w.regions)
}

// Factions returns per-faction import metadata.
func (w *World) Factions() map[int]*FactionInfo {
	return w.factions
}

// SetFaction installs faction metadata during load.
func (w *World) SetFaction(number int, info *FactionInfo) {
	w.factions[number] = info
}

// Events returns the report event messages tied to hex c. Events come
// from the most recently merged report; each merge replaces them.
func (w *World) Events(c Coord) []string {
	return w.events[c]
}

// AllEvents returns the live event map for the persistence layer.
func (w *World) AllEvents() map[Coord][]string {
	return w.events
}

// SetEvents installs hex events during load.
func (w *World) SetEvents(c Coord, messages []string) {
	w.events[c] = messages
}

// Dirty reports whether the world has unsaved changes.
func (w *World) Dirty() bool { return w.dirty }

// MarkClean clears the dirty flag after a successful save.
func (w *World) MarkClean() { w.dirty = false }
