package domain

import "time"

// Session represents an active user session with a refresh token.
// Each device gets its own session - you can see what's connected.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`

	// Device information - structured data from the client.
	DeviceType    string `json:"device_type,omitempty"` // mobile, tablet, desktop, web
	Platform      string `json:"platform,omitempty"`    // iOS, Android, Windows, macOS, Linux, Web
	ClientName    string `json:"client_name,omitempty"` // London Makers Web
	ClientVersion string `json:"client_version,omitempty"`
	DeviceName    string `json:"device_name,omitempty"` // user-set, optional
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DisplayName returns a human-readable description of the device.
func (s *Session) DisplayName() string {
	if s.DeviceName != "" {
		return s.DeviceName
	}
	if s.Platform != "" {
		return s.Platform
	}
	if s.ClientName != "" {
		if s.ClientVersion != "" {
			return s.ClientName + " " + s.ClientVersion
		}
		return s.ClientName
	}
	return "Unknown Device"
}
