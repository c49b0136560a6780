package world

import (
	"reflect"
	"testing"

	"github.com/OldJobobo/lantir/internal/report"
)

func coordPtr(v int) *int { return &v }

func snapshot(x, y int, terrain string, units ...report.Unit) report.Region {
	return report.Region{
		Coordinates: report.Coordinates{X: coordPtr(x), Y: coordPtr(y)},
		Terrain:     terrain,
		Units:       units,
	}
}

func unit(number int, name string) report.Unit {
	return report.Unit{Name: name, Number: number}
}

func testReport(year int, month string, regions ...report.Region) *report.Report {
	return &report.Report{
		FactionName:   "Testers",
		FactionNumber: 7,
		Date:          report.Date{Month: month, Year: year},
		Regions:       regions,
	}
}

func TestMerge_FirstDiscovery(t *testing.T) {
	w := New()
	stats := w.Merge(testReport(1, "January", snapshot(0, 0, "plains", unit(101, "U1"))), MergePolicy{})

	if stats.Inserted != 1 || stats.Updated != 0 || len(stats.Warnings) != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if w.Len() != 1 {
		t.Fatalf("world has %d regions, want 1", w.Len())
	}
	r := w.Region(Coord{0, 0})
	if r == nil || r.Terrain != "plains" {
		t.Fatalf("region = %+v", r)
	}
	if len(r.Units) != 1 || r.Units[0].Name != "U1" {
		t.Fatalf("units = %+v", r.Units)
	}
	if !w.Dirty() {
		t.Fatal("merge should mark world dirty")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	rpt := testReport(1, "January",
		snapshot(0, 0, "plains", unit(101, "U1")),
		snapshot(1, 1, "forest"))
	rpt.Regions[1].Exits = []report.Exit{{
		Direction: "South",
		Region:    report.ExitRegion{Coordinates: report.Coordinates{X: coordPtr(1), Y: coordPtr(3)}, Terrain: "swamp"},
	}}

	once := New()
	once.Merge(rpt, MergePolicy{})
	twice := New()
	twice.Merge(rpt, MergePolicy{})
	twice.Merge(rpt, MergePolicy{})

	if !reflect.DeepEqual(once.regions, twice.regions) {
		t.Fatalf("double merge diverged:\nonce:  %+v\ntwice: %+v", once.regions, twice.regions)
	}
	if !reflect.DeepEqual(once.factions, twice.factions) {
		t.Fatalf("faction meta diverged")
	}
}

func TestMerge_MostRecentWins(t *testing.T) {
	w := New()
	w.Merge(testReport(1, "January", snapshot(0, 0, "plains")), MergePolicy{})
	w.Merge(testReport(1, "February", snapshot(0, 0, "desert")), MergePolicy{})

	r := w.Region(Coord{0, 0})
	if r.Terrain != "desert" {
		t.Fatalf("terrain = %q, want desert (turn N+1 wins)", r.Terrain)
	}
	if r.FirstSeenTurn != 1 || r.LastSeenTurn != 2 {
		t.Fatalf("seen turns = %d..%d, want 1..2", r.FirstSeenTurn, r.LastSeenTurn)
	}
}

func TestMerge_BatchTieBreak_LaterSnapshotWins(t *testing.T) {
	w := New()
	w.Merge(testReport(1, "January",
		snapshot(0, 0, "plains"),
		snapshot(0, 0, "tundra")), MergePolicy{})

	if r := w.Region(Coord{0, 0}); r.Terrain != "tundra" {
		t.Fatalf("terrain = %q, want tundra (later in file order)", r.Terrain)
	}
}

func TestMerge_MalformedSnapshotSkipped(t *testing.T) {
	w := New()
	rpt := testReport(1, "January",
		report.Region{Terrain: "void"}, // no coordinates
		snapshot(1, 0, "limbo"),        // parity violation: off-grid
		snapshot(2, 0, "plains"))
	stats := w.Merge(rpt, MergePolicy{})

	if len(stats.Warnings) != 2 {
		t.Fatalf("warnings = %+v, want 2", stats.Warnings)
	}
	if w.Len() != 1 || w.Region(Coord{2, 0}) == nil {
		t.Fatalf("rest of batch should still apply, world = %+v", w.regions)
	}
}

func TestMerge_UnitsRetainedByDefault(t *testing.T) {
	w := New()
	w.Merge(testReport(1, "January", snapshot(0, 0, "plains", unit(101, "U1"), unit(102, "U2"))), MergePolicy{})
	// Next turn only mentions U2, renamed.
	w.Merge(testReport(1, "February", snapshot(0, 0, "plains", unit(102, "U2 renamed"))), MergePolicy{})

	r := w.Region(Coord{0, 0})
	if len(r.Units) != 2 {
		t.Fatalf("units = %+v, want U1 retained and U2 replaced", r.Units)
	}
	if r.Units[0].Number != 101 || r.Units[0].Name != "U1" {
		t.Fatalf("unit 101 = %+v, want retained last known state", r.Units[0])
	}
	if r.Units[1].Name != "U2 renamed" {
		t.Fatalf("unit 102 = %+v, want replaced wholesale", r.Units[1])
	}
}

func TestMerge_UnitsRemovedUnderDepartedPolicy(t *testing.T) {
	policy := MergePolicy{RemoveDeparted: true}
	w := New()
	w.Merge(testReport(1, "January", snapshot(0, 0, "plains", unit(101, "U1"), unit(102, "U2"))), policy)
	w.Merge(testReport(1, "February", snapshot(0, 0, "plains", unit(102, "U2"))), policy)

	r := w.Region(Coord{0, 0})
	if len(r.Units) != 1 || r.Units[0].Number != 102 {
		t.Fatalf("units = %+v, want only 102 (101 departed)", r.Units)
	}
}

func TestMerge_NewUnitsAppended(t *testing.T) {
	w := New()
	w.Merge(testReport(1, "January", snapshot(0, 0, "plains", unit(101, "U1"))), MergePolicy{})
	w.Merge(testReport(1, "February", snapshot(0, 0, "plains", unit(101, "U1"), unit(103, "U3"))), MergePolicy{})

	r := w.Region(Coord{0, 0})
	if len(r.Units) != 2 || r.Units[1].Number != 103 {
		t.Fatalf("units = %+v, want 101 then 103", r.Units)
	}
}

func TestMerge_SettlementRetainedWhenOmitted(t *testing.T) {
	w := New()
	first := testReport(1, "January", snapshot(0, 0, "plains"))
	first.Regions[0].Settlement = &report.Settlement{Name: "Dunbar", Size: "village"}
	w.Merge(first, MergePolicy{})
	w.Merge(testReport(1, "February", snapshot(0, 0, "plains")), MergePolicy{})

	r := w.Region(Coord{0, 0})
	if r.Settlement == nil || r.Settlement.Name != "Dunbar" {
		t.Fatalf("settlement = %+v, want last known state retained", r.Settlement)
	}
}

func TestMerge_ExitsCreatePeekedStubs(t *testing.T) {
	w := New()
	rpt := testReport(1, "January", snapshot(0, 0, "plains"))
	rpt.Regions[0].Exits = []report.Exit{{
		Direction: "Southeast",
		Region:    report.ExitRegion{Coordinates: report.Coordinates{X: coordPtr(1), Y: coordPtr(1)}, Terrain: "forest"},
	}}
	stats := w.Merge(rpt, MergePolicy{})

	if stats.Peeked != 1 {
		t.Fatalf("stats = %+v, want one peeked stub", stats)
	}
	stub := w.Region(Coord{1, 1})
	if stub == nil || !stub.Peeked || stub.Terrain != "forest" {
		t.Fatalf("stub = %+v", stub)
	}

	// A later full snapshot upgrades the stub but keeps its discovery turn.
	w.Merge(testReport(1, "March", snapshot(1, 1, "forest", unit(104, "U4"))), MergePolicy{})
	r := w.Region(Coord{1, 1})
	if r.Peeked {
		t.Fatal("full snapshot should clear the peeked flag")
	}
	if r.FirstSeenTurn != 1 || r.LastSeenTurn != 3 {
		t.Fatalf("seen turns = %d..%d, want 1..3", r.FirstSeenTurn, r.LastSeenTurn)
	}
}

func TestMerge_ExitNeverOverwritesKnownRegion(t *testing.T) {
	w := New()
	w.Merge(testReport(1, "January", snapshot(1, 1, "forest", unit(104, "U4"))), MergePolicy{})

	rpt := testReport(1, "February", snapshot(0, 0, "plains"))
	rpt.Regions[0].Exits = []report.Exit{{
		Region: report.ExitRegion{Coordinates: report.Coordinates{X: coordPtr(1), Y: coordPtr(1)}, Terrain: "ocean"},
	}}
	w.Merge(rpt, MergePolicy{})

	r := w.Region(Coord{1, 1})
	if r.Peeked || r.Terrain != "forest" || len(r.Units) != 1 {
		t.Fatalf("known region damaged by exit stub: %+v", r)
	}
}

func TestMerge_FactionMetadata(t *testing.T) {
	w := New()
	w.Merge(testReport(2, "January", snapshot(0, 0, "plains")), MergePolicy{})
	// An older report arrives late; last turn must not move backwards.
	w.Merge(testReport(1, "June", snapshot(2, 0, "desert")), MergePolicy{})

	info := w.Factions()[7]
	if info == nil || info.Name != "Testers" {
		t.Fatalf("faction info = %+v", info)
	}
	if info.LastTurn != 13 {
		t.Fatalf("last turn = %d, want 13 (year 2, January)", info.LastTurn)
	}
}

func TestCoord_ValidityAndNeighbors(t *testing.T) {
	if !(Coord{0, 0}).Valid() || !(Coord{1, 1}).Valid() || !(Coord{2, 0}).Valid() {
		t.Fatal("same-parity coordinates should be valid")
	}
	if (Coord{1, 0}).Valid() || (Coord{0, 3}).Valid() {
		t.Fatal("mixed-parity coordinates are off-grid")
	}
	for _, n := range (Coord{3, 5}).Neighbors() {
		if !n.Valid() {
			t.Fatalf("neighbor %s off-grid", n)
		}
		if Distance(Coord{3, 5}, n) != 1 {
			t.Fatalf("neighbor %s not at distance 1", n)
		}
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{1, 1}, 1},
		{Coord{0, 0}, Coord{0, 2}, 1},
		{Coord{0, 0}, Coord{2, 0}, 2},
		{Coord{0, 0}, Coord{0, 6}, 3},
		{Coord{0, 0}, Coord{3, 1}, 3},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMerge_DuplicateUnitNumbersCollapse(t *testing.T) {
	rpt := testReport(1, "January",
		snapshot(0, 0, "plains", unit(101, "first"), unit(101, "second")))

	w := New()
	w.Merge(rpt, MergePolicy{})

	r := w.Region(Coord{0, 0})
	if len(r.Units) != 1 || r.Units[0].Name != "second" {
		t.Fatalf("units = %+v, want the later duplicate only", r.Units)
	}

	// Re-applying the identical report must change nothing.
	before := append([]report.Unit(nil), r.Units...)
	w.Merge(rpt, MergePolicy{})
	if !reflect.DeepEqual(w.Region(Coord{0, 0}).Units, before) {
		t.Fatalf("re-merge mutated units: %+v -> %+v", before, w.Region(Coord{0, 0}).Units)
	}
}

func TestMerge_DuplicateStructureNumbersCollapse(t *testing.T) {
	snap := snapshot(0, 0, "plains")
	snap.Structures = []report.Structure{
		{Name: "Old Tower", Number: 1, Type: "tower"},
		{Name: "New Tower", Number: 1, Type: "tower"},
	}
	rpt := testReport(1, "January", snap)

	w := New()
	w.Merge(rpt, MergePolicy{})
	w.Merge(rpt, MergePolicy{})

	r := w.Region(Coord{0, 0})
	if len(r.Structures) != 1 || r.Structures[0].Name != "New Tower" {
		t.Fatalf("structures = %+v, want the later duplicate only", r.Structures)
	}
}

func TestMerge_EventsIndexedByHex(t *testing.T) {
	rpt := testReport(1, "January",
		snapshot(0, 0, "plains", unit(101, "U1")),
		snapshot(1, 1, "forest"))
	rpt.Events = []report.Event{
		{Message: "Taxes collected.", Region: &report.EventRegion{
			Coordinates: report.Coordinates{X: coordPtr(1), Y: coordPtr(1)}}},
		{Message: "U1 studies combat.", Unit: &report.EventUnit{Number: 101}},
		{Message: "U1 studies combat.", Unit: &report.EventUnit{Number: 101}},
		{Message: "Orphan line.", Unit: &report.EventUnit{Number: 999}},
	}

	w := New()
	w.Merge(rpt, MergePolicy{})

	if got := w.Events(Coord{1, 1}); !reflect.DeepEqual(got, []string{"Taxes collected."}) {
		t.Fatalf("(1,1) events = %q", got)
	}
	// The unit event lands on the hex the report places unit 101 in,
	// with the repeated message collapsed.
	if got := w.Events(Coord{0, 0}); !reflect.DeepEqual(got, []string{"U1 studies combat."}) {
		t.Fatalf("(0,0) events = %q", got)
	}
}

func TestMerge_EventsReplacedEachImport(t *testing.T) {
	w := New()

	first := testReport(1, "January", snapshot(0, 0, "plains"))
	first.Events = []report.Event{{Message: "Old news.", Region: &report.EventRegion{
		Coordinates: report.Coordinates{X: coordPtr(0), Y: coordPtr(0)}}}}
	w.Merge(first, MergePolicy{})

	second := testReport(1, "February", snapshot(0, 0, "plains"))
	w.Merge(second, MergePolicy{})

	if got := w.Events(Coord{0, 0}); got != nil {
		t.Fatalf("stale events survived a newer import: %q", got)
	}
}
