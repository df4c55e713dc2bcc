// Package server serves elix elements over HTTP and WebSocket.
//
// GET / renders a fresh element to a complete HTML page. The page loads a
// small client script that opens GET /ws, where the server builds another
// element for the connection and keeps it live:
//
//   - the element gets its own loop, render scheduler and state
//   - client input arrives as JSON messages and is dispatched to the
//     element as user events, one loop turn per message
//   - every render is sent back as the element's HTML
//   - every event the element emits is forwarded to the client
//
// # Wire Format
//
// Client to server:
//
//	{"type": "keydown", "key": "ArrowDown"}
//	{"type": "mousedown", "button": 0, "index": 2, "target": "option-2"}
//	{"type": "ping"}
//
// Server to client:
//
//	{"type": "render", "html": "<elix-list-box ...>...</elix-list-box>"}
//	{"type": "event", "name": "selected-index-changed", "detail": 2}
//	{"type": "error", "code": "E040", "message": "..."}
//	{"type": "pong"}
//
// # Usage
//
//	srv, err := server.New(server.Options{
//	    Config: cfg,
//	    NewElement: func(sched *render.Scheduler, opts element.Options) (*element.Element, error) {
//	        return element.New("elix-list-box", sched, opts, behaviors.ListBox()...)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.ListenAndServe(ctx)
package server
