package model

import "fmt"

// ConfigError reports a level-authoring bug caught at catalog load time.
// It is fatal: a catalog that fails validation must not be played.
type ConfigError struct {
	Level  int
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Level > 0 {
		return fmt.Sprintf("level %d: %s", e.Level, e.Reason)
	}
	return e.Reason
}
