package model

import (
	"encoding/json"
)

// Catalog document keys interpreted by the launcher
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldSummary     = "summary"
	FieldDescription = "description"
	FieldDownloadURL = "download_url"
)

// BuildEntry represents one item of the build catalog
type BuildEntry struct {
	ID          string
	Name        string
	Summary     string
	Description string
	DownloadURL string

	// Fields holds every key of the source object verbatim, including the
	// ones mapped above and any the launcher does not interpret.
	Fields map[string]json.RawMessage
}

// NewBuildEntry builds an entry from the key/value pairs of a catalog object.
// Recognized keys whose value is not a JSON string are left empty.
func NewBuildEntry(fields map[string]json.RawMessage) BuildEntry {
	entry := BuildEntry{Fields: fields}
	entry.ID = stringField(fields, FieldID)
	entry.Name = stringField(fields, FieldName)
	entry.Summary = stringField(fields, FieldSummary)
	entry.Description = stringField(fields, FieldDescription)
	entry.DownloadURL = stringField(fields, FieldDownloadURL)
	return entry
}

// DisplayName returns the name, or the ID when the entry has no name
func (b BuildEntry) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// HasDownloadURL reports whether the entry can be acquired
func (b BuildEntry) HasDownloadURL() bool {
	return b.DownloadURL != ""
}

// Clone returns a deep copy that shares no memory with b
func (b BuildEntry) Clone() BuildEntry {
	clone := b
	if b.Fields != nil {
		clone.Fields = make(map[string]json.RawMessage, len(b.Fields))
		for key, value := range b.Fields {
			clone.Fields[key] = append(json.RawMessage(nil), value...)
		}
	}
	return clone
}

// MarshalJSON writes the source object back out, unknown keys included
func (b BuildEntry) MarshalJSON() ([]byte, error) {
	if b.Fields != nil {
		return json.Marshal(b.Fields)
	}
	fields := map[string]string{FieldID: b.ID}
	for key, value := range map[string]string{
		FieldName:        b.Name,
		FieldSummary:     b.Summary,
		FieldDescription: b.Description,
		FieldDownloadURL: b.DownloadURL,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return json.Marshal(fields)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
