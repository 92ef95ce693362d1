package config

import "time"

// UploadsConfig contains avatar upload (Cloudinary) configuration.
// An empty UploadURL disables avatar uploads; sign-up still works and
// accounts get an empty avatar URL.
type UploadsConfig struct {
	// UploadURL is the full unsigned upload endpoint, e.g.
	// https://api.cloudinary.com/v1_1/<cloud>/image/upload
	UploadURL    string        `env:"URL"`
	UploadPreset string        `env:"PRESET"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// LeadGenConfig holds the JMESPath expressions mapping external form
// payloads onto lead fields. Empty values fall back to the flat
// {name, email, phone, source} shape.
type LeadGenConfig struct {
	NameExpr   string `env:"NAME_EXPR"`
	EmailExpr  string `env:"EMAIL_EXPR"`
	PhoneExpr  string `env:"PHONE_EXPR"`
	SourceExpr string `env:"SOURCE_EXPR"`
}
