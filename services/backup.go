package services

import (
	"encoding/json"
	"fmt"
	"time"
)

// Storage keys used inside backup buckets.
const (
	backupAppName      = "PIC"
	backupVersion      = "2.0"
	ItemsStorageKey    = "budget_items"
	SettingsStorageKey = "export_settings"
)

// BackupMetadata describes a backup document.
type BackupMetadata struct {
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	AppName    string `json:"appName"`
	TotalItems int    `json:"totalItems"`
	TotalSize  int    `json:"totalSize"`
}

// BackupFile is the JSON backup/restore document: a metadata block plus four
// buckets, each mapping a storage key to its raw value.
type BackupFile struct {
	Metadata BackupMetadata             `json:"metadata"`
	Config   map[string]json.RawMessage `json:"config"`
	Products map[string]json.RawMessage `json:"products"`
	UI       map[string]json.RawMessage `json:"ui"`
	Other    map[string]json.RawMessage `json:"other"`
}

// BuildBackup assembles a backup document from the current items and export
// settings. TotalSize counts the serialized bytes of every bucket value.
func BuildBackup(items []LineItem, settings ExportSettings, now time.Time) (BackupFile, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return BackupFile{}, fmt.Errorf("marshal items: %w", err)
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return BackupFile{}, fmt.Errorf("marshal settings: %w", err)
	}

	b := BackupFile{
		Config:   map[string]json.RawMessage{SettingsStorageKey: settingsJSON},
		Products: map[string]json.RawMessage{ItemsStorageKey: itemsJSON},
		UI:       map[string]json.RawMessage{},
		Other:    map[string]json.RawMessage{},
	}
	b.Metadata = BackupMetadata{
		Version:    backupVersion,
		Timestamp:  now.UTC().Format(time.RFC3339),
		AppName:    backupAppName,
		TotalItems: len(items),
		TotalSize:  len(itemsJSON) + len(settingsJSON),
	}
	return b, nil
}

// ParseBackup validates the shape of an uploaded backup document. Malformed
// documents are rejected here, before any value reaches the pricing core.
func ParseBackup(data []byte) (BackupFile, error) {
	var b BackupFile
	if err := json.Unmarshal(data, &b); err != nil {
		return BackupFile{}, fmt.Errorf("invalid backup document: %w", err)
	}
	if b.Metadata.Version == "" {
		return BackupFile{}, fmt.Errorf("invalid backup document: missing metadata version")
	}
	if b.Products == nil {
		return BackupFile{}, fmt.Errorf("invalid backup document: missing products bucket")
	}
	return b, nil
}

// RestoreItems extracts the line items from a backup's products bucket. Each
// item is normalized and its total recomputed through the compositor; a
// persisted total field is never trusted.
func RestoreItems(b BackupFile) ([]LineItem, error) {
	raw, ok := b.Products[ItemsStorageKey]
	if !ok {
		return nil, fmt.Errorf("backup has no %q entry", ItemsStorageKey)
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("invalid items payload: %w", err)
	}
	for i := range items {
		items[i].Index = i + 1
		items[i].Normalize()
		items[i].Recompute()
	}
	return items, nil
}

// RestoreSettings extracts the export settings from a backup's config bucket,
// falling back to defaults when absent.
func RestoreSettings(b BackupFile) ExportSettings {
	raw, ok := b.Config[SettingsStorageKey]
	if !ok {
		return DefaultExportSettings()
	}
	settings := DefaultExportSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultExportSettings()
	}
	return settings
}
