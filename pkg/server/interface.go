/*
Package server implements msgpack IPC for fuzzy search services.

The server reads a stream of msgpack maps from stdin and answers each with
exactly one msgpack map on stdout. Logs go to stderr. Requests are handled
one at a time, in order, with timing info included in search responses.

# IPC

On startup the server writes a status message:

	{"id": "", "status": "ready"}

Search requests carry a query, an optional limit and an optional flag asking
for match data:

	{"id": "req_001", "a": "search", "q": "itm", "l": 5, "d": true}

The server responds with entries ranked by score:

	{"id": "req_001", "s": [{"k": "item", "r": 1, "sc": 0.75, "o": "item", "n": 2}], "c": 1, "t": 41}

k is the first key of the matched entry, r its 1-based rank and sc its score
(10 for an exact match). When d is set, o is the key that matched best and
i and n give the byte offset and length of the match inside it; zero values
are omitted. t is the time taken in microseconds.

A request without an action is a search. Two more actions exist:

	{"id": "i1", "a": "info"}    -> {"id": "i1", "status": "ok", "candidates": 1200, "keys": 1800, "nodes": 9000, "threshold": 0.6}
	{"id": "h1", "a": "health"}  -> {"id": "h1", "status": "ok"}

Failures are reported per request and the loop continues:

	{"id": "req_002", "e": "invalid query: exceeds maximum length of 256 bytes", "c": 400}

Code 400 marks a bad request and 422 a search over an empty corpus. A stream
that stops being valid msgpack ends the server with an error.
*/
package server

// Action names
const (
	ActionSearch = "search"
	ActionInfo   = "info"
	ActionHealth = "health"
)

// Error codes
const (
	CodeBadRequest    = 400
	CodeNoCandidates  = 422
	CodeInternalError = 500
)

// Request is any client message. Fields unused by the action are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Query  string `msgpack:"q"`
	Limit  int    `msgpack:"l,omitempty"`
	Data   bool   `msgpack:"d,omitempty"`
}

// SearchResult - one ranked entry
type SearchResult struct {
	Key      string  `msgpack:"k"`
	Rank     uint16  `msgpack:"r"`
	Score    float64 `msgpack:"sc"`
	Original string  `msgpack:"o,omitempty"`
	Index    int     `msgpack:"i,omitempty"`
	Length   int     `msgpack:"n,omitempty"`
}

// SearchResponse - search response
type SearchResponse struct {
	ID        string         `msgpack:"id"`
	Results   []SearchResult `msgpack:"s"`
	Count     int            `msgpack:"c"`
	TimeTaken int64          `msgpack:"t"`
}

// InfoResponse - corpus and index statistics
type InfoResponse struct {
	ID         string  `msgpack:"id"`
	Status     string  `msgpack:"status"`
	Candidates int     `msgpack:"candidates"`
	Keys       int     `msgpack:"keys"`
	Nodes      int     `msgpack:"nodes"`
	Threshold  float64 `msgpack:"threshold"`
}

// StatusResponse - ready and health messages
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for any request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
