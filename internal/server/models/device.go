// Package models defines server-side data models persisted in the database.
package models

import (
	"encoding/json"
	"time"
)

// DeviceStatus tracks a device record through provisioning.
type DeviceStatus string

const (
	// DeviceStatusPending marks a record written mid-pipeline; it becomes
	// active only when the artifact has been published.
	DeviceStatusPending DeviceStatus = "pending"
	DeviceStatusActive  DeviceStatus = "active"
)

// Device is one provisioned client device of a user.
type Device struct {
	ID        string
	UserID    string
	Settings  DeviceSettings
	Cert      string
	Status    DeviceStatus
	CreatedAt time.Time
}

// DeviceSettings is the per-device preferences document stored as JSON and
// pushed to the broker.
type DeviceSettings struct {
	Nickname        string  `json:"nickname"`
	Enabled         bool    `json:"enabled"`
	AutoCopy        bool    `json:"auto_copy"`
	AutoPaste       bool    `json:"auto_paste"`
	CacheTime       int     `json:"cache_time"`
	Hotkey          string  `json:"hotkey"`
	EnableHotkey    bool    `json:"enable_hotkey"`
	NotificationVol float64 `json:"notification_vol"`
	Muted           bool    `json:"muted"`
	SendToSelf      bool    `json:"send_to_self"`
	BLEAlwaysOff    bool    `json:"ble_always_off"`
	Startup         bool    `json:"startup"`
	Destroy         bool    `json:"destroy"`
}

// DefaultSettings returns the settings a freshly provisioned device starts
// with.
func DefaultSettings(nickname string, cacheTime int) DeviceSettings {
	return DeviceSettings{
		Nickname:        nickname,
		Enabled:         true,
		AutoCopy:        false,
		AutoPaste:       false,
		CacheTime:       cacheTime,
		Hotkey:          "",
		EnableHotkey:    false,
		NotificationVol: 1.0,
		Muted:           false,
		SendToSelf:      true,
		BLEAlwaysOff:    false,
		Startup:         true,
		Destroy:         false,
	}
}

// DeviceSettingsEntry pairs a device id with its stored settings document,
// the unit the broker receives when settings are synchronized. Settings holds
// the document exactly as stored: keys written by other settings flows are
// kept and absent keys stay absent.
type DeviceSettingsEntry struct {
	DeviceID string          `json:"deviceid"`
	Settings json.RawMessage `json:"settings"`
}
