package domain

import "time"

// Verdict represents the recorded outcome of a configuration check.
type Verdict struct {
	Root        string    `json:"root,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	OK          bool      `json:"ok"`
	Problems    []string  `json:"problems,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
