package entity

import "time"

// Preview quotes an action before it is submitted. Fields an action does not use are empty.
type Preview struct {
	Kind         string     `json:"kind"`
	Input        string     `json:"input"`
	Output       string     `json:"output"`
	Fee          string     `json:"fee"`
	Net          string     `json:"net,omitempty"`
	Interest     string     `json:"interest,omitempty"`
	MaturityTime *time.Time `json:"maturityTime,omitempty"`
}
