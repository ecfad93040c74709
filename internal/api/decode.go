package api

import (
	"country-editor/internal/model"

	"github.com/tidwall/gjson"
)

// DecodeDefaultState parses a default state document:
//
//	{"laws": {"<group>": [{"<option>": "<image>", ...}, <column>], ...},
//	 "countries": ["<code>", ...]}
//
// Law groups and options keep document order. A document delivered as a JSON
// string holding the real document is unwrapped once.
func DecodeDefaultState(b []byte) (model.DefaultState, error) {
	if !gjson.ValidBytes(b) {
		return model.DefaultState{}, malformed("default state is not valid json")
	}
	doc := gjson.ParseBytes(b)
	if doc.Type == gjson.String {
		inner := doc.Str
		if !gjson.Valid(inner) {
			return model.DefaultState{}, malformed("default state string does not hold json")
		}
		doc = gjson.Parse(inner)
	}
	if !doc.IsObject() {
		return model.DefaultState{}, malformed("default state is not an object")
	}

	laws := doc.Get("laws")
	if !laws.IsObject() {
		return model.DefaultState{}, malformed(`"laws" must be an object`)
	}
	countries := doc.Get("countries")
	if !countries.IsArray() {
		return model.DefaultState{}, malformed(`"countries" must be an array`)
	}

	var st model.DefaultState
	var err error
	seen := map[string]bool{}
	laws.ForEach(func(key, value gjson.Result) bool {
		if seen[key.String()] {
			err = malformed("duplicate law group %q", key.String())
			return false
		}
		seen[key.String()] = true
		var g model.LawGroup
		g, err = decodeLawGroup(key.String(), value)
		if err != nil {
			return false
		}
		st.Laws = append(st.Laws, g)
		return true
	})
	if err != nil {
		return model.DefaultState{}, err
	}

	st.Countries = []string{}
	for i, c := range countries.Array() {
		if c.Type != gjson.String {
			return model.DefaultState{}, malformed("countries[%d] is not a string", i)
		}
		st.Countries = append(st.Countries, c.Str)
	}
	return st, nil
}

func decodeLawGroup(name string, v gjson.Result) (model.LawGroup, error) {
	if !v.IsArray() {
		return model.LawGroup{}, malformed("law group %q must be [options, column]", name)
	}
	parts := v.Array()
	if len(parts) != 2 {
		return model.LawGroup{}, malformed("law group %q must have 2 elements, got %d", name, len(parts))
	}
	if !parts[0].IsObject() {
		return model.LawGroup{}, malformed("law group %q options must be an object", name)
	}

	var entries []model.OptionImage
	var err error
	parts[0].ForEach(func(key, img gjson.Result) bool {
		switch img.Type {
		case gjson.String:
			entries = append(entries, model.OptionImage{Key: key.String(), Image: img.Str})
		case gjson.Null:
			// No image; the selector renders without a background.
			entries = append(entries, model.OptionImage{Key: key.String()})
		default:
			err = malformed("law group %q option %q image must be a string", name, key.String())
			return false
		}
		return true
	})
	if err != nil {
		return model.LawGroup{}, err
	}
	opts, oerr := model.NewOptionImageMap(entries...)
	if oerr != nil {
		return model.LawGroup{}, malformed("law group %q: %v", name, oerr)
	}

	// The column is validated when the group is placed on the grid.
	return model.LawGroup{Name: name, Options: opts, Column: parts[1].Value()}, nil
}

// DecodeCountryName parses the name service answer, a JSON string.
func DecodeCountryName(b []byte) (string, error) {
	if !gjson.ValidBytes(b) {
		return "", malformed("country name is not valid json")
	}
	r := gjson.ParseBytes(b)
	if r.Type != gjson.String {
		return "", malformed("country name must be a json string")
	}
	return r.Str, nil
}
