package models

import "fmt"

// JobMessage is the transcode job payload published by the dispatcher
// and consumed by the worker.
type JobMessage struct {
	VideoID      string `json:"videoId"`
	InputBucket  string `json:"inputBucket"`
	InputObject  string `json:"inputObject"`
	OutputBucket string `json:"outputBucket,omitempty"`
}

// Validate checks the required message fields. OutputBucket may be
// empty; the worker falls back to its configured processed bucket.
func (m JobMessage) Validate() error {
	if m.VideoID == "" {
		return fmt.Errorf("missing videoId")
	}
	if m.InputBucket == "" {
		return fmt.Errorf("missing inputBucket")
	}
	if m.InputObject == "" {
		return fmt.Errorf("missing inputObject")
	}
	return nil
}
