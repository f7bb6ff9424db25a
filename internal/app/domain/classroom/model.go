// Package classroom holds empty-classroom lookup models served by the
// classroom-timetable service.
package classroom

// BuildingAvailability lists the free rooms of one campus building for a
// queried time window. The upstream sends rooms as plain strings
// ("103호", "104호").
type BuildingAvailability struct {
	Building string   `json:"building"`
	Rooms    []string `json:"empty_classrooms"`
}
