package relay

import "encoding/json"

// Filter is one subscription constraint set. Empty lists are wildcards; a
// tag constraint ("#e", "#p", ...) matches when at least one value
// intersects the event's tags of that name.
type Filter struct {
	IDs     []string
	Authors []string
	Kinds   []int
	Tags    map[string][]string
	Since   *int64
	Until   *int64
	Limit   int
}

// filterJSON carries the fixed keys; "#"-prefixed tag keys are collected
// separately in UnmarshalJSON.
type filterJSON struct {
	IDs     []string `json:"ids,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Kinds   []int    `json:"kinds,omitempty"`
	Since   *int64   `json:"since,omitempty"`
	Until   *int64   `json:"until,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var fixed filterJSON
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}
	f.IDs = fixed.IDs
	f.Authors = fixed.Authors
	f.Kinds = fixed.Kinds
	f.Since = fixed.Since
	f.Until = fixed.Until
	f.Limit = fixed.Limit

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if len(key) < 2 || key[0] != '#' {
			continue
		}
		var values []string
		if err := json.Unmarshal(value, &values); err != nil {
			return err
		}
		if f.Tags == nil {
			f.Tags = make(map[string][]string)
		}
		f.Tags[key[1:]] = values
	}
	return nil
}

func (f Filter) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if len(f.IDs) > 0 {
		out["ids"] = f.IDs
	}
	if len(f.Authors) > 0 {
		out["authors"] = f.Authors
	}
	if len(f.Kinds) > 0 {
		out["kinds"] = f.Kinds
	}
	if f.Since != nil {
		out["since"] = *f.Since
	}
	if f.Until != nil {
		out["until"] = *f.Until
	}
	if f.Limit > 0 {
		out["limit"] = f.Limit
	}
	for name, values := range f.Tags {
		out["#"+name] = values
	}
	return json.Marshal(out)
}

// Matches reports whether the event satisfies every constraint of the
// filter.
func (f *Filter) Matches(ev *Event) bool {
	if len(f.IDs) > 0 && !containsString(f.IDs, ev.ID) {
		return false
	}
	if len(f.Authors) > 0 && !containsString(f.Authors, ev.PubKey) {
		return false
	}
	if len(f.Kinds) > 0 && !containsInt(f.Kinds, ev.Kind) {
		return false
	}
	if f.Since != nil && ev.CreatedAt < *f.Since {
		return false
	}
	if f.Until != nil && ev.CreatedAt > *f.Until {
		return false
	}
	for name, wanted := range f.Tags {
		if !tagIntersects(ev.Tags, name, wanted) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether the event satisfies at least one filter. An
// empty filter set matches everything.
func MatchesAny(filters []Filter, ev *Event) bool {
	if len(filters) == 0 {
		return true
	}
	for i := range filters {
		if filters[i].Matches(ev) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func tagIntersects(tags [][]string, name string, wanted []string) bool {
	for _, tag := range tags {
		if len(tag) < 2 || tag[0] != name {
			continue
		}
		for _, w := range wanted {
			if tag[1] == w {
				return true
			}
		}
	}
	return false
}
