package models

import "time"

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is the body of every 4xx/5xx from the caption endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthCheck struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Services  map[string]string      `json:"services"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Queue     map[string]interface{} `json:"queue,omitempty"`
}
