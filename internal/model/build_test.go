package model

import (
	"encoding/json"
	"testing"
)

func decodeFields(t *testing.T, doc string) map[string]json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		t.Fatalf("Failed to decode %s: %v", doc, err)
	}
	return fields
}

func TestNewBuildEntry(t *testing.T) {
	fields := decodeFields(t, `{
		"id": "vanilla-1.20",
		"name": "Vanilla 1.20",
		"summary": "Plain game",
		"description": "No mods at all",
		"download_url": "https://example.com/vanilla.zip",
		"mc_version": "1.20.1"
	}`)

	entry := NewBuildEntry(fields)

	if entry.ID != "vanilla-1.20" {
		t.Errorf("Expected ID 'vanilla-1.20', got '%s'", entry.ID)
	}
	if entry.Name != "Vanilla 1.20" {
		t.Errorf("Expected Name 'Vanilla 1.20', got '%s'", entry.Name)
	}
	if entry.Summary != "Plain game" {
		t.Errorf("Expected Summary 'Plain game', got '%s'", entry.Summary)
	}
	if entry.Description != "No mods at all" {
		t.Errorf("Expected Description 'No mods at all', got '%s'", entry.Description)
	}
	if entry.DownloadURL != "https://example.com/vanilla.zip" {
		t.Errorf("Expected DownloadURL 'https://example.com/vanilla.zip', got '%s'", entry.DownloadURL)
	}
	if string(entry.Fields["mc_version"]) != `"1.20.1"` {
		t.Errorf("Expected unknown field to be preserved, got %s", entry.Fields["mc_version"])
	}
}

func TestNewBuildEntry_NonStringValues(t *testing.T) {
	entry := NewBuildEntry(decodeFields(t, `{"id": 42, "name": null, "download_url": ["a"]}`))

	if entry.ID != "" || entry.Name != "" || entry.DownloadURL != "" {
		t.Errorf("Expected non-string values to map to empty strings, got %+v", entry)
	}
	if entry.HasDownloadURL() {
		t.Error("Entry without a string URL should not report a download URL")
	}
}

func TestBuildEntry_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{"Modded", "modded", "Modded"},
		{"", "modded", "modded"},
		{"", "", ""},
	}

	for _, test := range tests {
		entry := BuildEntry{ID: test.id, Name: test.name}
		if result := entry.DisplayName(); result != test.expected {
			t.Errorf("DisplayName() with name='%s', id='%s' = '%s', expected '%s'",
				test.name, test.id, result, test.expected)
		}
	}
}

func TestBuildEntry_Clone(t *testing.T) {
	original := NewBuildEntry(decodeFields(t, `{"id": "a", "extra": {"k": 1}}`))
	clone := original.Clone()

	clone.Fields["extra"][2] = 'X'
	clone.Fields["added"] = json.RawMessage(`true`)

	if string(original.Fields["extra"]) != `{"k": 1}` {
		t.Errorf("Clone shares field bytes with original: %s", original.Fields["extra"])
	}
	if _, exists := original.Fields["added"]; exists {
		t.Error("Clone shares field map with original")
	}
}

func TestBuildEntry_MarshalJSON(t *testing.T) {
	entry := NewBuildEntry(decodeFields(t, `{"id":"a","custom":[1,2]}`))

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := `{"custom":[1,2],"id":"a"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	data, err = json.Marshal(BuildEntry{ID: "b", Name: "B"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != `{"id":"b","name":"B"}` {
		t.Errorf("Expected entry without source fields to marshal known keys, got %s", data)
	}
}
