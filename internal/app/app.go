// Package app is the desktop client: an ebiten window showing the
// accumulated world as a pannable, zoomable hex map with a detail panel
// for the selected hex. It owns the world instance; merges happen only
// on the game loop's thread in response to queued imports.
package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/OldJobobo/lantir/internal/config"
	"github.com/OldJobobo/lantir/internal/report"
	"github.com/OldJobobo/lantir/internal/store"
	"github.com/OldJobobo/lantir/internal/world"
)

const (
	panelWidth   = 380 // detail panel on the right edge
	statusHeight = 22  // status bar along the bottom
	panelPad     = 10
	lineHeight   = 14
)

// SelectionFunc observes selection changes on the map view.
type SelectionFunc func(world.Coord, *world.Region)

// App wires the world, store, and hex map view into one ebiten game.
type App struct {
	cfg    *config.Config
	world  *world.World
	store  *store.Store
	logger *slog.Logger
	policy world.MergePolicy

	proj Projection
	cam  Camera

	width  int
	height int
	mapW   int // map viewport width (window minus panel)
	mapH   int // map viewport height (window minus status bar)

	selected    *world.Coord
	onSelection []SelectionFunc
	detail      []string // panel lines, refreshed by the selection observer

	showCoords bool
	status     string

	imports <-chan string

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
	dragging      bool
	lastDragX     int
	lastDragY     int
}

// New builds the app around an already loaded world.
func New(cfg *config.Config, w *world.World, st *store.Store, logger *slog.Logger) *App {
	a := &App{
		cfg:        cfg,
		world:      w,
		store:      st,
		logger:     logger,
		policy:     world.MergePolicy{RemoveDeparted: cfg.Imports.RemoveDepartedUnits},
		proj:       Projection{Radius: cfg.Map.HexRadius},
		cam:        Camera{Zoom: 1.0},
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		showCoords: cfg.Map.ShowCoords,
		status:     "ready",
		prevKeys:   make(map[ebiten.Key]bool),
	}
	a.mapW = a.width - panelWidth
	a.mapH = a.height - statusHeight
	a.centerOnKnownRegions()

	// The detail panel subscribes to selection changes; imports
	// re-notify so the cached lines never go stale (see ImportFile).
	a.OnSelectionChanged(func(c world.Coord, _ *world.Region) {
		a.detail = FormatRegion(a.world, c)
	})
	return a
}

// SetImportQueue attaches the channel of report paths to import, fed by
// the directory watcher and drained once per Update tick.
func (a *App) SetImportQueue(ch <-chan string) {
	a.imports = ch
}

// OnSelectionChanged registers an observer for hex selection.
func (a *App) OnSelectionChanged(fn SelectionFunc) {
	a.onSelection = append(a.onSelection, fn)
}

// SelectHex sets the current selection and notifies observers.
func (a *App) SelectHex(c world.Coord) {
	a.selected = &c
	a.notifySelection()
}

func (a *App) notifySelection() {
	if a.selected == nil {
		return
	}
	r := a.world.Region(*a.selected)
	for _, fn := range a.onSelection {
		fn(*a.selected, r)
	}
}

// centerOnKnownRegions points the camera at the centroid of the loaded
// world, or the origin hex for an empty one.
func (a *App) centerOnKnownRegions() {
	regions := a.world.Regions()
	if len(regions) == 0 {
		a.cam.X, a.cam.Y = a.proj.HexToPixel(world.Coord{X: 0, Y: 0})
		return
	}
	var sx, sy float64
	for c := range regions {
		px, py := a.proj.HexToPixel(c)
		sx += px
		sy += py
	}
	a.cam.X = sx / float64(len(regions))
	a.cam.Y = sy / float64(len(regions))
}

// ImportFile parses one report file and merges it into the world.
// Parse failures change nothing; merge warnings are aggregated into the
// status line with the rest of the batch applied.
func (a *App) ImportFile(path string) {
	rpt, err := report.ParseFile(path)
	if err != nil {
		a.status = fmt.Sprintf("import failed: %v", err)
		a.logger.Warn("import failed", "path", path, "err", err)
		return
	}
	stats := a.world.Merge(rpt, a.policy)
	a.status = fmt.Sprintf("turn %d from %s: %d new, %d updated, %d peeked",
		stats.Turn, rpt.FactionName, stats.Inserted, stats.Updated, stats.Peeked)
	if n := len(stats.Warnings); n > 0 {
		a.status += fmt.Sprintf(", %d skipped", n)
		for _, warn := range stats.Warnings {
			a.logger.Warn("snapshot skipped", "path", path, "detail", warn.String())
		}
	}
	a.logger.Info("report imported", "path", path, "turn", stats.Turn,
		"inserted", stats.Inserted, "updated", stats.Updated)

	// The merge may have touched the selected hex.
	a.notifySelection()
}

// Save persists the world if it has unsaved changes.
func (a *App) Save() {
	if !a.world.Dirty() {
		a.status = "no changes to save"
		return
	}
	if err := a.store.SaveWorld(a.world); err != nil {
		a.status = fmt.Sprintf("save failed: %v", err)
		a.logger.Error("save failed", "err", err)
		return
	}
	a.status = fmt.Sprintf("saved %d regions", a.world.Len())
	a.logger.Info("world saved", "regions", a.world.Len())
}

// Shutdown saves a dirty world after the window closes.
func (a *App) Shutdown() error {
	if !a.world.Dirty() {
		return nil
	}
	if err := a.store.SaveWorld(a.world); err != nil {
		return err
	}
	a.logger.Info("world saved on exit", "regions", a.world.Len())
	return nil
}

func (a *App) Update() error {
	// Drain queued report imports; mutation stays on this thread.
drain:
	for a.imports != nil {
		select {
		case path, ok := <-a.imports:
			if !ok {
				a.imports = nil
				break drain
			}
			a.ImportFile(path)
		default:
			break drain
		}
	}
	a.handleInput()
	return nil
}

func (a *App) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !a.prevKeys[k]
	}

	// Camera pan: WASD or arrow keys, slower when zoomed in.
	panSpeed := 8.0 / a.cam.Zoom
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		a.cam.Y -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) && !ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		a.cam.Y += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		a.cam.X -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		a.cam.X += panSpeed
	}

	// Right-drag pan.
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if a.dragging {
			a.cam.X -= float64(mx-a.lastDragX) / a.cam.Zoom
			a.cam.Y -= float64(my-a.lastDragY) / a.cam.Zoom
		}
		a.dragging = true
		a.lastDragX, a.lastDragY = mx, my
	} else {
		a.dragging = false
	}

	// Zoom: mouse wheel or =/- keys.
	_, wy := ebiten.Wheel()
	if wy != 0 {
		a.cam.ZoomBy(math.Pow(1.12, wy))
	}
	if pressed(ebiten.KeyEqual) {
		a.cam.ZoomBy(1.25)
	}
	if pressed(ebiten.KeyMinus) {
		a.cam.ZoomBy(1 / 1.25)
	}

	// G: toggle coordinate labels.
	if pressed(ebiten.KeyG) {
		a.showCoords = !a.showCoords
	}

	// Ctrl+S: save.
	currentKeys[ebiten.KeyS] = ebiten.IsKeyPressed(ebiten.KeyS)
	if currentKeys[ebiten.KeyS] && !a.prevKeys[ebiten.KeyS] && ebiten.IsKeyPressed(ebiten.KeyControl) {
		a.Save()
	}

	// C: copy the selected hex summary to the clipboard.
	if pressed(ebiten.KeyC) && a.selected != nil {
		if err := clipboard.WriteAll(strings.Join(a.detail, "\n")); err != nil {
			a.status = fmt.Sprintf("clipboard: %v", err)
		} else {
			a.status = fmt.Sprintf("copied %s summary", *a.selected)
		}
	}

	// Left click: select the hex under the pointer.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !a.prevMouseLeft {
		if c, ok := a.HitTest(mx, my); ok {
			a.SelectHex(c)
		}
	}
	a.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	a.prevKeys = currentKeys
}

// HitTest resolves a screen pixel to the hex under it. Returns false
// for points outside the map viewport (over the panel or status bar).
func (a *App) HitTest(sx, sy int) (world.Coord, bool) {
	if sx < 0 || sx >= a.mapW || sy < 0 || sy >= a.mapH {
		return world.Coord{}, false
	}
	wx, wy := a.cam.ScreenToWorld(float64(sx), float64(sy), a.mapW, a.mapH)
	return a.proj.PixelToHex(wx, wy), true
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 18, B: 20, A: 255})
	a.drawMap(screen)
	a.drawPanel(screen)
	a.drawStatus(screen)
}

func (a *App) drawMap(screen *ebiten.Image) {
	// World-space rectangle covered by the map viewport.
	left, top := a.cam.ScreenToWorld(0, 0, a.mapW, a.mapH)
	right, bottom := a.cam.ScreenToWorld(float64(a.mapW), float64(a.mapH), a.mapW, a.mapH)
	x0, y0, x1, y1 := a.proj.visibleRange(left, top, right, bottom)

	rz := float32(a.proj.Radius * a.cam.Zoom)
	gridCol := color.RGBA{R: 45, G: 48, B: 52, A: 255}
	outlineCol := color.RGBA{R: 10, G: 10, B: 12, A: 255}

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			c := world.Coord{X: x, Y: y}
			if !c.Valid() {
				continue
			}
			wx, wy := a.proj.HexToPixel(c)
			fx, fy := a.cam.WorldToScreen(wx, wy, a.mapW, a.mapH)
			sx, sy := float32(fx), float32(fy)

			r := a.world.Region(c)
			if r == nil {
				// Undiscovered: empty background cell, not omitted.
				strokeHex(screen, sx, sy, rz, 1, gridCol)
				continue
			}

			col := terrainColor(r.Terrain)
			if r.Peeked {
				col = dimmed(col)
			}
			fillHex(screen, sx, sy, rz, col)
			strokeHex(screen, sx, sy, rz, 1, outlineCol)

			a.drawRegionMarkers(screen, r, sx, sy, rz)

			if a.showCoords && a.cam.Zoom >= 0.65 {
				a.drawHexLabel(screen, c, r.Terrain, int(sx), int(sy))
			}
		}
	}

	// Selection highlight on top of everything else.
	if a.selected != nil {
		wx, wy := a.proj.HexToPixel(*a.selected)
		fx, fy := a.cam.WorldToScreen(wx, wy, a.mapW, a.mapH)
		strokeHex(screen, float32(fx), float32(fy), rz, 3, color.RGBA{R: 200, G: 40, B: 40, A: 255})
	}
}

// drawHexLabel prints the coordinate pair at a hex center. Ocean hexes
// get light text, everything else dark, matching the terrain fills.
func (a *App) drawHexLabel(screen *ebiten.Image, c world.Coord, terrain string, sx, sy int) {
	label := fmt.Sprintf("(%d,%d)", c.X, c.Y)
	col := color.RGBA{R: 10, G: 10, B: 10, A: 255}
	if terrain == "ocean" {
		col = color.RGBA{R: 176, G: 176, B: 176, A: 255}
	}
	face := basicfont.Face7x13
	lx := sx - len(label)*face.Advance/2
	text.Draw(screen, label, face, lx, sy+face.Height/3, col)
}

func (a *App) drawRegionMarkers(screen *ebiten.Image, r *world.Region, sx, sy, rz float32) {
	markerCol := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	size := rz * 0.3
	if size < 4 {
		size = 4
	}
	if hasOwnUnits(r) {
		drawUnitMarker(screen, sx, sy+rz*0.45, size, markerCol)
	}
	if r.Settlement != nil {
		drawSettlementMarker(screen, sx, sy-rz*0.45, size, markerCol)
	}
	if len(r.Structures) > 0 {
		drawStructureMarker(screen, sx+rz*0.55, sy, size, markerCol)
	}
}

func hasOwnUnits(r *world.Region) bool {
	for _, u := range r.Units {
		if u.OwnUnit {
			return true
		}
	}
	for _, s := range r.Structures {
		for _, u := range s.Units {
			if u.OwnUnit {
				return true
			}
		}
	}
	return false
}

func (a *App) drawPanel(screen *ebiten.Image) {
	px := float32(a.mapW)
	vector.FillRect(screen, px, 0, panelWidth, float32(a.height), color.RGBA{R: 25, G: 25, B: 25, A: 255}, false)
	vector.StrokeLine(screen, px, 0, px, float32(a.height), 1, color.RGBA{R: 70, G: 70, B: 70, A: 255}, false)

	lx := a.mapW + panelPad
	ly := panelPad
	if a.selected == nil {
		ebitenutil.DebugPrintAt(screen, "Click a hex to inspect it.", lx, ly)
		ly += 2 * lineHeight
		ebitenutil.DebugPrintAt(screen, "WASD/arrows or right-drag: pan", lx, ly)
		ly += lineHeight
		ebitenutil.DebugPrintAt(screen, "wheel or =/-: zoom", lx, ly)
		ly += lineHeight
		ebitenutil.DebugPrintAt(screen, "G: coords  C: copy  Ctrl+S: save", lx, ly)
		return
	}

	maxLines := (a.height - statusHeight - 2*panelPad) / lineHeight
	for i, line := range a.detail {
		if i >= maxLines {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, lx, ly+i*lineHeight)
	}
}

func (a *App) drawStatus(screen *ebiten.Image) {
	sy := float32(a.height - statusHeight)
	vector.FillRect(screen, 0, sy, float32(a.width), statusHeight, color.RGBA{R: 25, G: 25, B: 25, A: 255}, false)
	vector.StrokeLine(screen, 0, sy, float32(a.width), sy, 1, color.RGBA{R: 70, G: 70, B: 70, A: 255}, false)

	line := fmt.Sprintf("%d regions", a.world.Len())
	for number, info := range a.world.Factions() {
		line += fmt.Sprintf("  |  %s (#%d) turn %d", info.Name, number, info.LastTurn)
	}
	if a.world.Dirty() {
		line += "  |  unsaved changes"
	}
	line += "  |  " + a.status
	ebitenutil.DebugPrintAt(screen, line, 6, a.height-statusHeight+3)
}

func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
