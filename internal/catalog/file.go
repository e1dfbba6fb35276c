package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/easenetics/easenetics/internal/model"
)

// levelFile represents a TOML level definition file.
type levelFile struct {
	Level []fileLevel `toml:"level"`
}

// fileLevel maps one [[level]] block. Optional fields are pointers so an
// omitted value is distinguishable from a zero.
type fileLevel struct {
	Number        int      `toml:"number"`
	Title         string   `toml:"title"`
	Description   *string  `toml:"description"`
	FlashMs       int      `toml:"flash-ms"`
	Length        int      `toml:"length"`
	Shapes        []string `toml:"shapes"`
	RequiredScore int      `toml:"required-score"`
}

// LoadFile reads level definitions from a TOML file. The result still has
// to pass New's validation; this only maps the file onto levels.
func LoadFile(path string) ([]model.Level, error) {
	if path == "" {
		return nil, fmt.Errorf("level file path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat level file: %w", err)
	}
	var file levelFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode level file: %w", err)
	}
	if len(file.Level) == 0 {
		return nil, &model.ConfigError{Reason: "level file defines no levels"}
	}
	levels := make([]model.Level, 0, len(file.Level))
	for _, fl := range file.Level {
		lvl := model.Level{
			Number:               fl.Number,
			Title:                fl.Title,
			FlashDurationMs:      fl.FlashMs,
			SequenceLength:       fl.Length,
			ShapeSet:             fl.Shapes,
			RequiredScorePercent: fl.RequiredScore,
		}
		if fl.Description != nil {
			lvl.Description = *fl.Description
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}
