// Package server provides HTTP routing, middleware and the JSON API of the phone catalog.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so requests with the wrong
// method get 405 and wildcards such as {slug} are read with [http.Request.PathValue].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [APIHandler] and the HTML handler in internal/web both register this way.
//
// # Middleware
//
//   - [Logging] : one structured log line per request
//   - [Recover] : converts handler panics into 500 responses
//   - [RateLimit] : per-client token bucket (golang.org/x/time/rate), 429 when exhausted
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled and then shuts down gracefully.
package server
