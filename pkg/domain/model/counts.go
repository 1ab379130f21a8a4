package model

// EntityCounts holds per-table record counts for the dashboard and the
// settings page.
type EntityCounts struct {
	Events      int `json:"events"`
	Malware     int `json:"malware"`
	Phishing    int `json:"phishing"`
	IOCs        int `json:"iocs"`
	Mitigations int `json:"mitigations"`
	OpenEvents  int `json:"events_open"`
}
