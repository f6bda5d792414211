package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Literal(t *testing.T) {
	b, err := json.Marshal(DefaultSettings("Unnamed Device", 30))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"nickname": "Unnamed Device",
		"enabled": true,
		"auto_copy": false,
		"auto_paste": false,
		"cache_time": 30,
		"hotkey": "",
		"enable_hotkey": false,
		"notification_vol": 1.0,
		"muted": false,
		"send_to_self": true,
		"ble_always_off": false,
		"startup": true,
		"destroy": false
	}`, string(b))
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{in: "windows", want: PlatformWindows},
		{in: " MacOS ", want: PlatformMacOS},
		{in: "linux", want: PlatformLinux},
		{in: "amiga", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatform(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorUnknownPlatform)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
