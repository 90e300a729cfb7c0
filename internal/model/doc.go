package model

// Package model holds the data types shared by the resolver, the download
// orchestrator, and both presentation layers: format descriptors, progress
// events, download requests, and the domain error taxonomy.
