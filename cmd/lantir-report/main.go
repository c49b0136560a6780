package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/OldJobobo/lantir/internal/report"
	"github.com/OldJobobo/lantir/internal/store"
	"github.com/OldJobobo/lantir/internal/world"
)

func main() {
	var worldFile string
	var save bool
	var removeDeparted bool

	flag.StringVar(&worldFile, "world", "", "world file to load before importing (and save with -save)")
	flag.BoolVar(&save, "save", false, "write the merged world back to -world")
	flag.BoolVar(&removeDeparted, "remove-departed", false, "drop units absent from a newer snapshot of their region")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("usage: lantir-report [flags] report.json [report.json ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if save && worldFile == "" {
		fmt.Println("error: -save requires -world")
		os.Exit(2)
	}

	w := world.New()
	var st *store.Store
	if worldFile != "" {
		var err error
		st, err = store.Open(worldFile)
		if err != nil {
			fmt.Printf("error: open %s: %v\n", worldFile, err)
			os.Exit(1)
		}
		defer st.Close()
		if loaded, err := st.LoadWorld(); err == nil {
			w = loaded
		} else {
			fmt.Printf("warning: %s unusable, starting empty: %v\n", worldFile, err)
		}
	}

	policy := world.MergePolicy{RemoveDeparted: removeDeparted}
	failed := 0
	for _, path := range flag.Args() {
		rpt, err := report.ParseFile(path)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			failed++
			continue
		}
		stats := w.Merge(rpt, policy)
		fmt.Printf("%s: faction %s (%d), %s year %d (turn %d)\n",
			path, rpt.FactionName, rpt.FactionNumber, rpt.Date.Month, rpt.Date.Year, stats.Turn)
		fmt.Printf("  regions: %d new, %d updated, %d peeked\n",
			stats.Inserted, stats.Updated, stats.Peeked)
		for _, warn := range stats.Warnings {
			fmt.Printf("  warning: region %d: %s\n", warn.Index, warn.Reason)
		}
	}

	printWorldSummary(w)

	if save {
		if err := st.SaveWorld(w); err != nil {
			fmt.Printf("error: save %s: %v\n", worldFile, err)
			os.Exit(1)
		}
		fmt.Printf("saved %d regions to %s\n", w.Len(), worldFile)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printWorldSummary(w *world.World) {
	byTerrain := map[string]int{}
	peeked := 0
	units := 0
	for _, r := range w.Regions() {
		if r.Peeked {
			peeked++
			continue
		}
		byTerrain[r.Terrain]++
		units += len(r.Units)
		for _, s := range r.Structures {
			units += len(s.Units)
		}
	}

	fmt.Printf("\n=== World Summary ===\n")
	fmt.Printf("regions=%d peeked=%d units=%d\n", w.Len(), peeked, units)

	terrains := make([]string, 0, len(byTerrain))
	for t := range byTerrain {
		terrains = append(terrains, t)
	}
	sort.Strings(terrains)
	for _, t := range terrains {
		fmt.Printf("  %-12s %d\n", t, byTerrain[t])
	}

	factions := make([]int, 0, len(w.Factions()))
	for n := range w.Factions() {
		factions = append(factions, n)
	}
	sort.Ints(factions)
	for _, n := range factions {
		info := w.Factions()[n]
		fmt.Printf("faction %d (%s): last report turn %d\n", n, info.Name, info.LastTurn)
	}
}
