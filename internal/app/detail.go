package app

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/OldJobobo/lantir/internal/report"
	"github.com/OldJobobo/lantir/internal/world"
)

// FormatRegion renders the known state of one hex as display lines for
// the detail panel. Read-only: it mirrors live world state and caches
// nothing. A coordinate with no region entry yields the explicit
// undiscovered result.
func FormatRegion(w *world.World, c world.Coord) []string {
	r := w.Region(c)
	if r == nil {
		return []string{
			fmt.Sprintf("Hex %s", c),
			"",
			"Undiscovered.",
		}
	}

	if r.Peeked {
		return []string{
			fmt.Sprintf("%s %s", r.Terrain, c),
			"",
			"Seen from a neighbouring hex.",
			"No report has covered this region yet.",
		}
	}

	var lines []string
	header := fmt.Sprintf("%s %s", r.Terrain, c)
	if r.Province != "" {
		header += fmt.Sprintf(" in %s", capitalize(r.Province))
	}
	lines = append(lines, header)

	if r.Settlement != nil {
		lines = append(lines, fmt.Sprintf("Contains: %s (%s)", r.Settlement.Name, r.Settlement.Size))
	}
	if r.Population.Amount > 0 {
		lines = append(lines, fmt.Sprintf("Population: %s (%s)",
			humanize.Comma(int64(r.Population.Amount)), r.Population.Race))
	}
	if r.Tax > 0 {
		lines = append(lines, fmt.Sprintf("Tax: %s", humanize.Comma(int64(r.Tax))))
	}
	if r.Wages.Max > 0 {
		lines = append(lines, fmt.Sprintf("Wages: %.1f (max %s)",
			r.Wages.Amount, humanize.Comma(int64(r.Wages.Max))))
	}
	if r.Entertainment > 0 {
		lines = append(lines, fmt.Sprintf("Entertainment: %s", humanize.Comma(int64(r.Entertainment))))
	}

	if len(r.Products) > 0 {
		lines = append(lines, "", "Products:")
		for _, p := range r.Products {
			lines = append(lines, fmt.Sprintf("  %dx %s", p.Amount, p.Name))
		}
	}

	if len(r.Markets.ForSale) > 0 {
		lines = append(lines, "", "For sale:")
		for _, m := range r.Markets.ForSale {
			lines = append(lines, formatMarketRow(m))
		}
	}
	if len(r.Markets.Wanted) > 0 {
		lines = append(lines, "", "Wanted:")
		for _, m := range r.Markets.Wanted {
			lines = append(lines, formatMarketRow(m))
		}
	}

	if len(r.Units) > 0 {
		lines = append(lines, "", "Units:")
		for _, u := range r.Units {
			lines = append(lines, formatUnit(u, "  ")...)
		}
	}

	if len(r.Structures) > 0 {
		lines = append(lines, "", "Structures:")
		for _, s := range r.Structures {
			lines = append(lines, fmt.Sprintf("  %s (%d) [%s]", s.Name, s.Number, s.Type))
			for _, u := range s.Units {
				lines = append(lines, formatUnit(u, "    ")...)
			}
		}
	}

	if events := w.Events(c); len(events) > 0 {
		lines = append(lines, "", "Events:")
		for _, msg := range events {
			lines = append(lines, "  "+msg)
		}
	}

	lines = append(lines, "", fmt.Sprintf("Last seen: turn %d", r.LastSeenTurn))
	return lines
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func formatMarketRow(m report.Item) string {
	return fmt.Sprintf("  %dx %s @ %s silver",
		m.Amount, m.Name, humanize.Comma(int64(m.Price)))
}

func formatUnit(u report.Unit, indent string) []string {
	head := fmt.Sprintf("%s%s (%d)", indent, u.Name, u.Number)
	if u.Faction.Name != "" {
		head += fmt.Sprintf(", %s (#%d)", u.Faction.Name, u.Faction.Number)
	}
	var tags []string
	if u.OwnUnit {
		tags = append(tags, "own")
	}
	if u.Attitude != "" {
		tags = append(tags, u.Attitude)
	}
	if u.Flags.Avoid {
		tags = append(tags, "avoid")
	}
	if u.Flags.Guard {
		tags = append(tags, "guard")
	}
	if len(tags) > 0 {
		head += " [" + strings.Join(tags, ", ") + "]"
	}
	lines := []string{head}

	if len(u.Items) > 0 {
		var parts []string
		for _, it := range u.Items {
			parts = append(parts, fmt.Sprintf("%dx %s", it.Amount, it.Name))
		}
		lines = append(lines, indent+"  has "+strings.Join(parts, ", "))
	}
	if len(u.Skills.Known) > 0 {
		var parts []string
		for _, sk := range u.Skills.Known {
			parts = append(parts, fmt.Sprintf("%s %d", sk.Name, sk.Level))
		}
		lines = append(lines, indent+"  skills "+strings.Join(parts, ", "))
	}
	// Reports only carry orders for the player's own units.
	if len(u.Orders) > 0 {
		lines = append(lines, indent+"  orders "+strings.Join(u.Orders, "; "))
	}
	return lines
}
