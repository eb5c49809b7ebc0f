// Package embedded содержит иконки трея, сгенерированные scripts/generate_icons.go.
package embedded

import (
	_ "embed"
)

// IconIdle - клавиша с микрофоном, серая.
//
//go:embed icon_idle.png
var IconIdle []byte

// IconRecording - красная, пока зажата горячая клавиша.
//
//go:embed icon_recording.png
var IconRecording []byte

// IconProcessing - оранжевая, пока запись распознаётся.
//
//go:embed icon_processing.png
var IconProcessing []byte
