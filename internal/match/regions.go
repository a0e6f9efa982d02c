package match

import "strings"

// regionStates maps a region token to the set of two-letter state codes it
// covers. Built once at process start, looked up by key only.
var regionStates = map[string]map[string]bool{
	"northeast": stateSet("CT", "MA", "ME", "NH", "NJ", "NY", "PA", "RI", "VT"),
	"southeast": stateSet("AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "SC", "TN", "VA", "WV"),
	"midwest":   stateSet("IA", "IL", "IN", "KS", "MI", "MN", "MO", "ND", "NE", "OH", "SD", "WI"),
	"southwest": stateSet("AZ", "NM", "OK", "TX"),
	"west":      stateSet("AK", "CA", "CO", "HI", "ID", "MT", "NV", "OR", "UT", "WA", "WY"),
}

func stateSet(codes ...string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

// stateInRegion reports whether a state code belongs to the named region.
// Unknown region tokens never match.
func stateInRegion(state, region string) bool {
	states, ok := regionStates[strings.ToLower(strings.TrimSpace(region))]
	if !ok {
		return false
	}
	return states[strings.ToUpper(strings.TrimSpace(state))]
}
