package model

import "time"

// BroadcastConfig is the single row describing the current stream endpoints.
// Saves overwrite every field; there is no partial merge at the data layer.
type BroadcastConfig struct {
	PublicURL          string    `json:"publicUrl"`
	PublicTitle        string    `json:"publicTitle"`
	PublicDescription  string    `json:"publicDescription"`
	PrivateURL         string    `json:"privateUrl"`
	PrivateTitle       string    `json:"privateTitle"`
	PrivateDescription string    `json:"privateDescription"`
	PrivateMode        bool      `json:"privateMode"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func DefaultBroadcastConfig() *BroadcastConfig {
	return &BroadcastConfig{
		PublicTitle:  "Transmissão ao vivo",
		PrivateTitle: "Canal dos parceiros",
	}
}
