package models

import "errors"

// MergePolicy controls what happens when a known external id is re-ingested.
type MergePolicy string

const (
	// MergeReplace overwrites every stored field with the incoming record,
	// even when the incoming record is sparser. Mirrors the provider feed
	// being treated as the source of truth.
	MergeReplace MergePolicy = "replace"
	// MergeFill keeps stored non-empty field values when the incoming record
	// omits them.
	MergeFill MergePolicy = "merge"
)

func ToMergePolicy(s string) (MergePolicy, error) {
	switch s {
	case string(MergeReplace):
		return MergeReplace, nil
	case string(MergeFill):
		return MergeFill, nil
	default:
		return "", errors.New("invalid merge policy")
	}
}
