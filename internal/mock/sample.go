package mock

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// floorRecord keeps the field order of the gateway's floor view
type floorRecord struct {
	BuildingID string  `json:"bl_id"`
	Building   string  `json:"name"`
	Banner     string  `json:"banner_name_abrev"`
	FloorID    string  `json:"fl_id"`
	FloorName  *string `json:"fl_name"`
	Area       float64 `json:"area_gross_int"`
	Rooms      int     `json:"count_rooms"`
}

func floorName(s string) *string { return &s }

var sampleFloors = []floorRecord{
	{"ADM", "Administration Building", "ADMIN", "01", floorName("Ground Floor"), 1820.5, 24},
	{"ADM", "Administration Building", "ADMIN", "02", floorName("Second Floor"), 1795, 31},
	{"ADM", "Administration Building", "ADMIN", "B1", nil, 640.25, 6},
	{"LIB", "Main Library", "LIBR", "01", floorName("Reading Room"), 2410, 12},
	{"LIB", "Main Library", "LIBR", "02", floorName("Stacks, North"), 2388, 9},
	{"SCI", "Science Complex", "SCI", "01", floorName("Teaching Labs"), 3120.75, 42},
	{"SCI", "Science Complex", "SCI", "02", floorName(""), 3098, 38},
	{"SCI", "Science Complex", "SCI", "03", floorName("Research \"Wing\""), 2990, 27},
}

// sampleQuery reads the filters a posted payload carries. Missing or blank
// values do not filter.
type sampleQuery struct {
	buildingID   string
	nameContains string
	floorID      string
}

func parseSampleQuery(body string) sampleQuery {
	return sampleQuery{
		buildingID:   strings.TrimSpace(gjson.Get(body, "building.bl_id").String()),
		nameContains: strings.TrimSpace(gjson.Get(body, "building.name.contains").String()),
		floorID:      strings.TrimSpace(gjson.Get(body, "floor.fl_id").String()),
	}
}

func (q sampleQuery) match(f floorRecord) bool {
	if q.buildingID != "" && !strings.EqualFold(q.buildingID, f.BuildingID) {
		return false
	}
	if q.nameContains != "" && !strings.Contains(strings.ToLower(f.Building), strings.ToLower(q.nameContains)) {
		return false
	}
	if q.floorID != "" && !strings.EqualFold(q.floorID, f.FloorID) {
		return false
	}
	return true
}

// SampleResponse returns the JSON array of floors matching the posted payload
func SampleResponse(body string) ([]byte, error) {
	q := parseSampleQuery(body)

	matched := make([]floorRecord, 0, len(sampleFloors))
	for _, f := range sampleFloors {
		if q.match(f) {
			matched = append(matched, f)
		}
	}
	return json.Marshal(matched)
}
