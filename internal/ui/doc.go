package ui

// Package ui contains the Fyne-based desktop user interface. It wires user
// interactions to format resolution and downloads, and renders the format
// list, progress and status.
