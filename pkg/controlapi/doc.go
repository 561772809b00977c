// Package controlapi is a small HTTP surface over an event bus and the
// machines subscribed to it, routed with chi.
//
//	api, err := controlapi.New[railroad.Event](dispatcher,
//		[]controlapi.Machine{c.Controller(), c.Gate(), c.Light()},
//		controlapi.WithEvents("seen", "¬seen"),
//	)
//	http.ListenAndServe(":8080", api.Handler())
//
// POST /events/{event} publishes and answers 202 with the dispatch id. The
// X-Request-ID header, when valid, becomes that dispatch id so a cascade can
// be traced back to the request. GET /machines and /machines/{name} return
// statemachine.Info as JSON; /machines/{name}/graph returns Graphviz DOT.
//
// Publish failures map to 503 when the dispatcher is full or closed, 508
// when a cascade exceeds the bus depth limit and 500 otherwise.
package controlapi
