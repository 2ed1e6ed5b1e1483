package recording

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ivlev/autocam/internal/events"
)

// file is the on-disk JSON layout: the recording plus its UI samples
type file struct {
	events.Recording
	UIStates []events.UIStateSample `json:"uiStates,omitempty"`
}

// LoadJSON reads and validates a JSON recording
func LoadJSON(path string) (events.Recording, []events.UIStateSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return events.Recording{}, nil, fmt.Errorf("failed to read recording: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return events.Recording{}, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := Validate(f.Recording, f.UIStates); err != nil {
		return events.Recording{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	return f.Recording, f.UIStates, nil
}

// WriteJSON writes a recording and its UI samples as indented JSON
func WriteJSON(path string, rec events.Recording, uiStates []events.UIStateSample) error {
	data, err := json.MarshalIndent(file{Recording: rec, UIStates: uiStates}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
