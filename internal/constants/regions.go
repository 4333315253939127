package constants

// AllRegions is the sentinel state meaning "no specific state picked".
// Bases cannot be chosen while a clan sits in it.
const AllRegions = "All States"

var States = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
	"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
	"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
	"New Hampshire", "New Jersey", "New Mexico", "New York",
	"North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon",
	"Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
	"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington",
	"West Virginia", "Wisconsin", "Wyoming",
}

var stateIndex = func() map[string]struct{} {
	m := make(map[string]struct{}, len(States))
	for _, s := range States {
		m[s] = struct{}{}
	}
	return m
}()

// IsKnownState reports whether s is a concrete state or the sentinel.
func IsKnownState(s string) bool {
	if s == AllRegions {
		return true
	}
	_, ok := stateIndex[s]
	return ok
}
