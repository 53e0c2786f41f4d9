// Package server exposes registered forms over HTTP.
//
// Routes:
//
//	GET  /health                    readiness, one entry per WithHealthCheck probe
//	GET  /metrics                   Prometheus metrics, when WithMetrics is set
//	GET  /v1/forms                  {"forms": [...names]}
//	POST /v1/forms/{form}/validate  validate a JSON, urlencoded or multipart body
//
// A valid submission answers 200 with {"valid": true, "result": {...}}; an
// invalid one answers 422 and adds the formatted "errors" map. Unknown forms
// answer 404, unreadable bodies 400 and schema configuration errors 500, each
// with an {"error": {"code", "message", "request_id"}} body.
//
// Every request gets a request id, a structured log line and, with
// WithTranslator, a negotiated locale that the validator's messages follow.
package server
