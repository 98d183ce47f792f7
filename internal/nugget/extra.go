package nugget

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Records are written by other tools too. Keys we do not model are kept in
// Extra on decode and merged back on encode so a rating rewrite never drops
// them.

type episodeFields Episode
type segmentFields Segment
type nuggetFields Nugget

var (
	episodeKeys = jsonKeys(reflect.TypeOf(episodeFields{}))
	segmentKeys = jsonKeys(reflect.TypeOf(segmentFields{}))
	nuggetKeys  = jsonKeys(reflect.TypeOf(nuggetFields{}))
)

func (e *Episode) UnmarshalJSON(data []byte) error {
	var v episodeFields
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownKeys(data, episodeKeys)
	if err != nil {
		return err
	}
	v.Extra = extra
	*e = Episode(v)
	return nil
}

func (e Episode) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(episodeFields(e))
	if err != nil {
		return nil, err
	}
	return withExtra(data, e.Extra)
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var v segmentFields
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownKeys(data, segmentKeys)
	if err != nil {
		return err
	}
	v.Extra = extra
	*s = Segment(v)
	return nil
}

// MarshalJSON writes an empty nuggets array for segments without nuggets.
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.Nuggets == nil {
		s.Nuggets = []Nugget{}
	}
	data, err := json.Marshal(segmentFields(s))
	if err != nil {
		return nil, err
	}
	return withExtra(data, s.Extra)
}

func (n *Nugget) UnmarshalJSON(data []byte) error {
	var v nuggetFields
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownKeys(data, nuggetKeys)
	if err != nil {
		return err
	}
	v.Extra = extra
	*n = Nugget(v)
	return nil
}

func (n Nugget) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(nuggetFields(n))
	if err != nil {
		return nil, err
	}
	return withExtra(data, n.Extra)
}

// jsonKeys returns the JSON object keys a struct type encodes.
func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = true
	}
	return keys
}

func unknownKeys(data []byte, known map[string]bool) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for k, v := range all {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra, nil
}

func withExtra(data []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
