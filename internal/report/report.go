// Package report parses Atlantis-style JSON turn reports into typed
// documents. Parsing is a pure function of the input bytes; unknown
// fields are ignored so newer report formats still load.
package report

// Report is one faction's view of the world as of one game turn.
type Report struct {
	FactionName    string         `json:"name"`
	FactionNumber  int            `json:"number"`
	Date           Date           `json:"date"`
	Engine         Engine         `json:"engine"`
	Attitudes      Attitudes      `json:"attitudes"`
	Administrative Administrative `json:"administrative"`
	Regions        []Region       `json:"regions"`
	Events         []Event        `json:"events"`
}

// Date identifies the game turn. Reports carry month/year rather than a
// flat turn number; TurnNumber derives one.
type Date struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// Engine describes the server that produced the report.
type Engine struct {
	Ruleset        string `json:"ruleset"`
	RulesetVersion string `json:"ruleset_version"`
	Version        string `json:"version"`
}

// Attitudes lists the faction's diplomatic stances.
type Attitudes struct {
	Default    string       `json:"default"`
	Ally       []FactionRef `json:"ally"`
	Friendly   []FactionRef `json:"friendly"`
	Neutral    []FactionRef `json:"neutral"`
	Unfriendly []FactionRef `json:"unfriendly"`
	Hostile    []FactionRef `json:"hostile"`
}

// Administrative holds account-level settings echoed in the report.
type Administrative struct {
	Email             string `json:"email"`
	PasswordUnset     bool   `json:"password_unset"`
	ShowUnitAttitudes bool   `json:"show_unit_attitudes"`
	TimesSent         bool   `json:"times_sent"`
}

// FactionRef names another faction.
type FactionRef struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Coordinates locates a region on the hex grid.
type Coordinates struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// Region is one hex snapshot as reported for this turn.
type Region struct {
	Coordinates   Coordinates `json:"coordinates"`
	Terrain       string      `json:"terrain"`
	Province      string      `json:"province"`
	Population    Population  `json:"population"`
	Tax           int         `json:"tax"`
	Wages         Wages       `json:"wages"`
	Entertainment int         `json:"entertainment"`
	Settlement    *Settlement `json:"settlement"`
	Products      []Item      `json:"products"`
	Markets       Markets     `json:"markets"`
	Units         []Unit      `json:"units"`
	Structures    []Structure `json:"structures"`
	Exits         []Exit      `json:"exits"`
}

// Population describes who lives in a region.
type Population struct {
	Amount int    `json:"amount"`
	Race   string `json:"race"`
}

// Wages is the regional wage rate and its cap.
type Wages struct {
	Amount float64 `json:"amount"`
	Max    int     `json:"max"`
}

// Settlement is a named town/city in a region.
type Settlement struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// Item is a named quantity, optionally priced (market rows) or tagged.
type Item struct {
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Amount int    `json:"amount"`
	Price  int    `json:"price"`
}

// Markets holds the buy and sell tables for a region.
type Markets struct {
	ForSale []Item `json:"for_sale"`
	Wanted  []Item `json:"wanted"`
}

// Unit is one unit present in a region.
type Unit struct {
	Name     string     `json:"name"`
	Number   int        `json:"number"`
	Faction  FactionRef `json:"faction"`
	Attitude string     `json:"attitude"`
	OwnUnit  bool       `json:"own_unit"`
	Flags    UnitFlags  `json:"flags"`
	Items    []Item     `json:"items"`
	Skills   Skills     `json:"skills"`
	Orders   []string   `json:"orders"`
}

// UnitFlags are the standing-order toggles shown for a unit.
type UnitFlags struct {
	Avoid bool `json:"avoid"`
	Guard bool `json:"guard"`
}

// Skills wraps the known-skill list.
type Skills struct {
	Known []Skill `json:"known"`
}

// Skill is one learned skill with its level and study progress.
type Skill struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	SkillDays int    `json:"skill_days"`
	Tag       string `json:"tag"`
}

// Structure is a building or ship in a region. Units garrisoned inside
// are listed on the structure, not on the region.
type Structure struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	Type   string `json:"type"`
	Units  []Unit `json:"units"`
}

// Exit describes a passable edge to a neighbouring region. The nested
// region carries coordinates and terrain only.
type Exit struct {
	Direction string     `json:"direction"`
	Region    ExitRegion `json:"region"`
}

// ExitRegion is the shallow neighbour stub inside an Exit.
type ExitRegion struct {
	Coordinates Coordinates `json:"coordinates"`
	Terrain     string      `json:"terrain"`
}

// Event is a report line tied to a region or a unit.
type Event struct {
	Message string       `json:"message"`
	Region  *EventRegion `json:"region"`
	Unit    *EventUnit   `json:"unit"`
}

// EventRegion locates a region-scoped event.
type EventRegion struct {
	Coordinates Coordinates `json:"coordinates"`
}

// EventUnit names the unit a unit-scoped event refers to.
type EventUnit struct {
	Number int `json:"number"`
}

// monthOrdinals maps report month names to their 1-based position in the
// game year.
var monthOrdinals = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// TurnNumber flattens the report date into a monotonically increasing
// turn index: (year-1)*12 + month ordinal. An unrecognised month counts
// as the first month of the year.
func (r *Report) TurnNumber() int {
	m, ok := monthOrdinals[lower(r.Date.Month)]
	if !ok {
		m = 1
	}
	return (r.Date.Year-1)*12 + m
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
