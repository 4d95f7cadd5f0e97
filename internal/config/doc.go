// Package config loads the optional leaguemetrics YAML configuration.
//
// Top-level types:
//   - Config{Database, AnalyzeModel, Analytics}: the full file
//   - Analytics: every kernel tunable (cutoff week, trials, playoff spots,
//     season length, score-model constants, seed and simulation bounds)
//
// Load(path) reads the YAML file, applies defaults (10000 trials, 6 playoff
// spots, 14 weeks, seed 42, ...), then validates. Validation failures are
// *model.InputError values so callers can match model.ErrInvalidInput.
//
// Watch(ctx, paths, onChange) uses fsnotify on the parent directories and
// reports writes to any of the given files.
package config
