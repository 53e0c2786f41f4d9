// Package clientip resolves the address of the client behind a request.
//
// Forwarding headers are easy to forge, so they are only read when the service
// runs behind a trusted proxy:
//
//	r.Use(clientip.Middleware(cfg.TrustProxy))
//	ip := clientip.FromContext(r.Context())
package clientip
