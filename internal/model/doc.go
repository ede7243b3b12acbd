package model

// Package model defines domain data structures shared across the service:
// media kinds, request/response payloads, quality options, and history
// records. Structures are designed for direct JSON binding in the HTTP layer.
