package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Category identifies one class of infrastructure
type Category string

const (
	CategoryWind    Category = "wind"
	CategorySolar   Category = "solar"
	CategoryThermal Category = "thermal"
	CategoryNuclear Category = "nuclear"
	CategoryHydro   Category = "hydro"
)

// categoryInfo describes how a category maps onto the backend
type categoryInfo struct {
	endpoint string // list endpoint under /api
	field    string // field name in a group record
	label    string
}

var categoryTable = map[Category]categoryInfo{
	CategoryWind:    {endpoint: "eolienneparc", field: "parc_eoliens", label: "Wind farms"},
	CategorySolar:   {endpoint: "solaire", field: "parc_solaires", label: "Solar farms"},
	CategoryThermal: {endpoint: "thermique", field: "central_thermique", label: "Thermal plants"},
	CategoryNuclear: {endpoint: "nucleaire", field: "central_nucleaire", label: "Nuclear plants"},
	CategoryHydro:   {endpoint: "hydro", field: "central_hydroelectriques", label: "Hydro dams"},
}

// AllCategories returns every known category in display order
func AllCategories() []Category {
	return []Category{CategoryWind, CategorySolar, CategoryThermal, CategoryNuclear, CategoryHydro}
}

// ParseCategory resolves a category tag
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	_, ok := categoryTable[c]
	return c, ok
}

// Valid reports whether the category is in the table
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Endpoint is the default list endpoint for the category
func (c Category) Endpoint() string { return categoryTable[c].endpoint }

// Field is the group record field holding the category's ids
func (c Category) Field() string { return categoryTable[c].field }

// Label is the human readable name
func (c Category) Label() string {
	if info, ok := categoryTable[c]; ok {
		return info.label
	}
	return string(c)
}

// Item is a single infrastructure asset
type Item struct {
	ID        int
	Name      string
	Category  Category
	Latitude  float64
	Longitude float64
	Extra     map[string]json.RawMessage // category specific fields, kept for details
}

// UnmarshalJSON decodes the backend's {id, nom, latitude, longitude, ...} shape
func (i *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var head struct {
		ID        int     `json:"id"`
		Name      string  `json:"nom"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	i.ID = head.ID
	i.Name = head.Name
	i.Latitude = head.Latitude
	i.Longitude = head.Longitude

	for _, k := range []string{"id", "nom", "latitude", "longitude"} {
		delete(fields, k)
	}
	if len(fields) > 0 {
		i.Extra = fields
	}
	return nil
}

// Group is a named, persisted collection of item references
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"nom"`
}

// IDList is a comma separated list of item ids as the backend stores it.
// Decoding is lenient: null, numbers and arrays are accepted, anything else
// decodes as empty and is reported through Malformed.
type IDList struct {
	Raw       string
	Malformed bool
}

// UnmarshalJSON accepts "1,2,3", 4, [1,2], null
func (l *IDList) UnmarshalJSON(data []byte) error {
	*l = IDList{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Raw = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		l.Raw = n.String()
		return nil
	}

	var arr []json.Number
	if err := json.Unmarshal(data, &arr); err == nil {
		parts := make([]string, 0, len(arr))
		for _, v := range arr {
			parts = append(parts, v.String())
		}
		l.Raw = strings.Join(parts, ",")
		return nil
	}

	l.Malformed = true
	return nil
}

// MarshalJSON always writes a string
func (l IDList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Raw)
}

// IDs parses the list, skipping empty and non numeric tokens.
// The second return value counts skipped tokens.
func (l IDList) IDs() ([]int, int) {
	if strings.TrimSpace(l.Raw) == "" {
		return nil, 0
	}
	var ids []int
	skipped := 0
	for _, tok := range strings.Split(l.Raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			skipped++
			continue
		}
		ids = append(ids, id)
	}
	return ids, skipped
}

// JoinIDs renders ids the way the backend stores them
func JoinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// GroupRecord is the full persisted form of a group
type GroupRecord struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"nom"`
	Wind    IDList `json:"parc_eoliens"`
	Solar   IDList `json:"parc_solaires"`
	Hydro   IDList `json:"central_hydroelectriques"`
	Thermal IDList `json:"central_thermique"`
	Nuclear IDList `json:"central_nucleaire"`
}

// IDs returns the id list stored for a category
func (r *GroupRecord) IDs(c Category) IDList {
	if p := r.field(c); p != nil {
		return *p
	}
	return IDList{}
}

// SetIDs replaces the id list stored for a category
func (r *GroupRecord) SetIDs(c Category, raw string) {
	if p := r.field(c); p != nil {
		*p = IDList{Raw: raw}
	}
}

func (r *GroupRecord) field(c Category) *IDList {
	switch c {
	case CategoryWind:
		return &r.Wind
	case CategorySolar:
		return &r.Solar
	case CategoryHydro:
		return &r.Hydro
	case CategoryThermal:
		return &r.Thermal
	case CategoryNuclear:
		return &r.Nuclear
	}
	return nil
}

// Optimism is a scenario's social or ecological outlook, 1..3
type Optimism int

const (
	OptimismPessimistic Optimism = 1
	OptimismAverage     Optimism = 2
	OptimismOptimistic  Optimism = 3
)

// Valid reports whether the value is in range
func (o Optimism) Valid() bool {
	return o >= OptimismPessimistic && o <= OptimismOptimistic
}

func (o Optimism) String() string {
	switch o {
	case OptimismPessimistic:
		return "pessimistic"
	case OptimismAverage:
		return "average"
	case OptimismOptimistic:
		return "optimistic"
	}
	return "unknown"
}

// TimeSteps lists the simulation steps the backend accepts (ISO 8601 durations)
var TimeSteps = []string{"PT15M", "PT1H", "PT4H", "P1D", "P7D"}

// Scenario is a simulation scenario
type Scenario struct {
	ID                 int      `json:"id,omitempty"`
	Name               string   `json:"nom"`
	Description        string   `json:"description,omitempty"`
	Start              string   `json:"date_de_debut,omitempty"`
	End                string   `json:"date_de_fin,omitempty"`
	Step               string   `json:"pas_de_temps,omitempty"`
	SocialOptimism     Optimism `json:"optimisme_social,omitempty"`
	EcologicalOptimism Optimism `json:"optimisme_ecologique,omitempty"`
}
