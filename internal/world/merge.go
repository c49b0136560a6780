package world

import (
	"fmt"

	"github.com/OldJobobo/lantir/internal/report"
)

// MergePolicy controls how a new snapshot treats units that the report
// no longer mentions for a previously known hex.
type MergePolicy struct {
	// RemoveDeparted drops units (and structures) absent from the new
	// snapshot instead of retaining their last known state.
	RemoveDeparted bool
}

// Warning flags one region snapshot that was skipped during a merge.
// Warnings are non-fatal: the rest of the batch still applies.
type Warning struct {
	Index  int // position of the snapshot in the report
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("region[%d]: %s", w.Index, w.Reason)
}

// MergeStats summarises one merge for the caller's status display.
type MergeStats struct {
	Turn     int
	Inserted int // newly discovered regions
	Updated  int // previously known regions refreshed
	Peeked   int // neighbour stubs created from exit lists
	Warnings []Warning
}

// Merge folds one parsed turn report into the world. Snapshots apply in
// file order, so a later duplicate for the same coordinate wins. The
// operation is idempotent: re-applying an identical report changes
// nothing observable.
func (w *World) Merge(rpt *report.Report, policy MergePolicy) MergeStats {
	turn := rpt.TurnNumber()
	stats := MergeStats{Turn: turn}

	for i := range rpt.Regions {
		snap := &rpt.Regions[i]
		c, reason := snapshotCoord(snap)
		if reason != "" {
			stats.Warnings = append(stats.Warnings, Warning{Index: i, Reason: reason})
			continue
		}
		if existing := w.regions[c]; existing != nil && !existing.Peeked {
			w.updateRegion(existing, snap, turn, policy)
			stats.Updated++
		} else {
			first := turn
			if existing != nil {
				// Peeked stub: keep the original discovery turn,
				// the snapshot supplies everything else.
				first = existing.FirstSeenTurn
			}
			r := regionFromSnapshot(c, snap, turn)
			r.FirstSeenTurn = first
			w.regions[c] = r
			stats.Inserted++
		}
	}

	// Exits reveal neighbour terrain. Create stubs for unseen hexes;
	// never touch a region we already know.
	for i := range rpt.Regions {
		for _, exit := range rpt.Regions[i].Exits {
			c, reason := exitCoord(&exit)
			if reason != "" || w.regions[c] != nil {
				continue
			}
			w.regions[c] = &Region{
				Coord:         c,
				Terrain:       exit.Region.Terrain,
				Peeked:        true,
				FirstSeenTurn: turn,
				LastSeenTurn:  turn,
			}
			stats.Peeked++
		}
	}

	// Events describe the turn just played, so each import replaces
	// the previous report's set wholesale.
	w.events = indexEvents(rpt)

	if info := w.factions[rpt.FactionNumber]; info == nil {
		w.factions[rpt.FactionNumber] = &FactionInfo{Name: rpt.FactionName, LastTurn: turn}
	} else {
		if rpt.FactionName != "" {
			info.Name = rpt.FactionName
		}
		if turn > info.LastTurn {
			info.LastTurn = turn
		}
	}

	w.dirty = true
	return stats
}

// indexEvents groups a report's events by hex. Region-scoped events
// attach to their own coordinate; unit-scoped events attach to the hex
// the report places that unit in, garrisons included. Repeated messages
// for the same hex collapse to the first occurrence.
func indexEvents(rpt *report.Report) map[Coord][]string {
	unitLoc := make(map[int]Coord)
	for i := range rpt.Regions {
		snap := &rpt.Regions[i]
		c, reason := snapshotCoord(snap)
		if reason != "" {
			continue
		}
		for _, u := range snap.Units {
			unitLoc[u.Number] = c
		}
		for _, s := range snap.Structures {
			for _, u := range s.Units {
				unitLoc[u.Number] = c
			}
		}
	}

	events := make(map[Coord][]string)
	seen := make(map[Coord]map[string]bool)
	for _, ev := range rpt.Events {
		if ev.Message == "" {
			continue
		}
		var c Coord
		switch {
		case ev.Region != nil && ev.Region.Coordinates.X != nil && ev.Region.Coordinates.Y != nil:
			c = Coord{X: *ev.Region.Coordinates.X, Y: *ev.Region.Coordinates.Y}
		case ev.Unit != nil:
			loc, ok := unitLoc[ev.Unit.Number]
			if !ok {
				continue
			}
			c = loc
		default:
			continue
		}
		if seen[c] == nil {
			seen[c] = make(map[string]bool)
		}
		if seen[c][ev.Message] {
			continue
		}
		seen[c][ev.Message] = true
		events[c] = append(events[c], ev.Message)
	}
	return events
}

// snapshotCoord extracts and validates a snapshot's coordinate.
func snapshotCoord(snap *report.Region) (Coord, string) {
	if snap.Coordinates.X == nil || snap.Coordinates.Y == nil {
		return Coord{}, "missing coordinates"
	}
	c := Coord{X: *snap.Coordinates.X, Y: *snap.Coordinates.Y}
	if !c.Valid() {
		return Coord{}, fmt.Sprintf("off-grid coordinates %s", c)
	}
	return c, ""
}

func exitCoord(exit *report.Exit) (Coord, string) {
	if exit.Region.Coordinates.X == nil || exit.Region.Coordinates.Y == nil {
		return Coord{}, "missing coordinates"
	}
	c := Coord{X: *exit.Region.Coordinates.X, Y: *exit.Region.Coordinates.Y}
	if !c.Valid() {
		return Coord{}, fmt.Sprintf("off-grid coordinates %s", c)
	}
	return c, ""
}

// regionFromSnapshot builds a fresh region from a first-discovery snapshot.
func regionFromSnapshot(c Coord, snap *report.Region, turn int) *Region {
	return &Region{
		Coord:         c,
		Terrain:       snap.Terrain,
		Province:      snap.Province,
		Population:    snap.Population,
		Tax:           snap.Tax,
		Wages:         snap.Wages,
		Entertainment: snap.Entertainment,
		Settlement:    cloneSettlement(snap.Settlement),
		Products:      cloneItems(snap.Products),
		Markets:       cloneMarkets(snap.Markets),
		Units:         cloneUnits(snap.Units),
		Structures:    cloneStructures(snap.Structures),
		FirstSeenTurn: turn,
		LastSeenTurn:  turn,
	}
}

// updateRegion folds a snapshot into an already known region.
// Scalar fields, market and product tables follow most-recent-wins.
// The settlement is replaced when reported and retained when omitted.
// Units and structures merge keyed by number: reported entries replace
// their previous state wholesale, unreported ones are retained unless
// the policy treats them as departed.
func (w *World) updateRegion(r *Region, snap *report.Region, turn int, policy MergePolicy) {
	r.Terrain = snap.Terrain
	r.Province = snap.Province
	r.Population = snap.Population
	r.Tax = snap.Tax
	r.Wages = snap.Wages
	r.Entertainment = snap.Entertainment
	r.Products = cloneItems(snap.Products)
	r.Markets = cloneMarkets(snap.Markets)
	if snap.Settlement != nil {
		r.Settlement = cloneSettlement(snap.Settlement)
	}
	r.Units = mergeUnits(r.Units, snap.Units, policy)
	r.Structures = mergeStructures(r.Structures, snap.Structures, policy)
	r.LastSeenTurn = turn
}

func mergeUnits(old, reported []report.Unit, policy MergePolicy) []report.Unit {
	reported = dedupeUnits(reported)
	inReport := make(map[int]int, len(reported)) // unit number -> index
	for i, u := range reported {
		inReport[u.Number] = i
	}

	var merged []report.Unit
	if !policy.RemoveDeparted {
		// Retained units keep their old position; reported ones are
		// replaced in place.
		for _, u := range old {
			if i, ok := inReport[u.Number]; ok {
				merged = append(merged, reported[i])
				delete(inReport, u.Number)
			} else {
				merged = append(merged, u)
			}
		}
	}
	for _, u := range reported {
		if _, pending := inReport[u.Number]; pending || policy.RemoveDeparted {
			merged = append(merged, u)
		}
	}
	return merged
}

func mergeStructures(old, reported []report.Structure, policy MergePolicy) []report.Structure {
	reported = dedupeStructures(reported)
	inReport := make(map[int]int, len(reported))
	for i, s := range reported {
		inReport[s.Number] = i
	}

	var merged []report.Structure
	if !policy.RemoveDeparted {
		for _, s := range old {
			if i, ok := inReport[s.Number]; ok {
				merged = append(merged, reported[i])
				delete(inReport, s.Number)
			} else {
				merged = append(merged, s)
			}
		}
	}
	for _, s := range reported {
		if _, pending := inReport[s.Number]; pending || policy.RemoveDeparted {
			merged = append(merged, s)
		}
	}
	return merged
}

// dedupeUnits collapses snapshot entries sharing a unit number down to
// the last one, so a malformed report with duplicates still merges
// idempotently. Entries keep the surviving occurrence's position.
func dedupeUnits(units []report.Unit) []report.Unit {
	last := make(map[int]int, len(units))
	for i, u := range units {
		last[u.Number] = i
	}
	if len(last) == len(units) {
		return units
	}
	out := make([]report.Unit, 0, len(last))
	for i, u := range units {
		if last[u.Number] == i {
			out = append(out, u)
		}
	}
	return out
}

func dedupeStructures(structures []report.Structure) []report.Structure {
	last := make(map[int]int, len(structures))
	for i, s := range structures {
		last[s.Number] = i
	}
	if len(last) == len(structures) {
		return structures
	}
	out := make([]report.Structure, 0, len(last))
	for i, s := range structures {
		if last[s.Number] == i {
			out = append(out, s)
		}
	}
	return out
}

func cloneSettlement(s *report.Settlement) *report.Settlement {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneItems(items []report.Item) []report.Item {
	if items == nil {
		return nil
	}
	out := make([]report.Item, len(items))
	copy(out, items)
	return out
}

func cloneMarkets(m report.Markets) report.Markets {
	return report.Markets{
		ForSale: cloneItems(m.ForSale),
		Wanted:  cloneItems(m.Wanted),
	}
}

func cloneUnits(units []report.Unit) []report.Unit {
	if units == nil {
		return nil
	}
	out := make([]report.Unit, len(units))
	copy(out, units)
	return out
}

func cloneStructures(structs []report.Structure) []report.Structure {
	if structs == nil {
		return nil
	}
	out := make([]report.Structure, len(structs))
	copy(out, structs)
	return out
}
