// Package http exposes the privmedia dispatcher over HTTP.
//
// The router mounts a single wildcard route, GET and HEAD on
// "<prefix>*", whose remainder is the resource path handed to the
// dispatcher. Every request first goes through IdentityMiddleware, which asks
// an IdentityResolver (normally *auth.Resolver) for the caller's identity and
// stores it in the request context.
//
// # Usage
//
//	dispatcher, _ := privmedia.NewDispatcher(privmedia.DispatcherConfig{
//	    Server: server,
//	    Mode:   privmedia.ModeProduction,
//	})
//	handler := http.NewHandler(&http.HandlerConfig{
//	    URLPrefix:  "/private/",
//	    ServerName: "sendfile",
//	}, dispatcher, resolver)
//	stdhttp.ListenAndServe(":8080", handler.Router())
//
// # Responses
//
// Errors are JSON bodies of the form {"error": "...", "message": "..."}:
//
//   - 404 not_found: missing file, or denied in production mode
//   - 403 forbidden: denied in debug mode
//   - 400 invalid_path: malformed path in debug mode
//   - 500 internal_error: anything else
//
// GET /healthz answers {"status":"ok"}. GET /metrics serves Prometheus
// metrics when HandlerConfig.Metrics is set. CORS is applied when
// HandlerConfig.CORS.Enabled is set.
package http
