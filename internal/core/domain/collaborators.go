package domain

import "time"

// Mail is an outbound plain-text message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// WeatherSnapshot is the subset of a provider's current-conditions report we expose.
type WeatherSnapshot struct {
	City         string    `json:"city"`
	Country      string    `json:"country,omitempty"`
	TemperatureC float64   `json:"temperature_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	Humidity     int       `json:"humidity"`
	WindSpeedKmh float64   `json:"wind_speed_kmh"`
	Descriptions []string  `json:"descriptions"`
	ObservedAt   string    `json:"observed_at,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Identity is what an external identity provider tells us about a login.
type Identity struct {
	Provider string
	Login    string
	Email    string
	Name     string
}

// LocalUsername is the username an external identity is provisioned under.
func (i Identity) LocalUsername() string {
	return i.Provider + ":" + i.Login
}
