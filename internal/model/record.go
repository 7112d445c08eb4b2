package model

// KeySeparator joins nested key paths in flattened records.
const KeySeparator = "."

// Record is one image's quality metrics and provenance metadata.
// In its canonical (flattened) form no value is itself a mapping; nested
// groups such as bids_meta appear as dotted keys ("bids_meta.Manufacturer").
type Record map[string]any

// Flatten returns a flat copy of a possibly nested record.
// Nested mappings are expanded to outer.inner keys at any depth; empty nested
// mappings contribute no keys. Leaf values (numbers, strings, booleans, nil,
// lists) are kept unchanged. Colliding keys are last-write-wins.
func Flatten(rec map[string]any) Record {
	flat := make(Record, len(rec))
	flattenInto(flat, "", rec)
	return flat
}

func flattenInto(dst Record, prefix string, src map[string]any) {
	for key, val := range src {
		path := prefix + key
		switch v := val.(type) {
		case map[string]any:
			flattenInto(dst, path+KeySeparator, v)
		case Record:
			flattenInto(dst, path+KeySeparator, v)
		default:
			dst[path] = v
		}
	}
}

// FlattenAll flattens every record in recs.
func FlattenAll(recs []map[string]any) []Record {
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[i] = Flatten(rec)
	}
	return out
}

// Clean removes the named fields from rec in place and returns it.
// Fields that are not present are ignored.
func Clean(rec Record, fields []string) Record {
	for _, f := range fields {
		delete(rec, f)
	}
	return rec
}

// CleanAll removes the named fields from every record in recs.
func CleanAll(recs []Record, fields []string) []Record {
	for _, rec := range recs {
		Clean(rec, fields)
	}
	return recs
}

// Checksum returns the record's content hash stored under field.
// A missing, nil, non-string or empty value reports false.
func (r Record) Checksum(field string) (string, bool) {
	sum, ok := r[field].(string)
	if !ok || sum == "" {
		return "", false
	}
	return sum, true
}
