package server

import "net/http"

// Routes registers every handler and wraps the mux with request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/map", s.HandleMap)
	mux.HandleFunc("GET /api/faults", s.HandleFaults)
	mux.HandleFunc("GET /tiles/", s.HandleTile)
	mux.HandleFunc("GET /data/", s.HandleData)
	mux.HandleFunc("GET /favicon.svg", s.HandleFavicon)
	mux.HandleFunc("GET /", s.HandleIndex)

	return RequestLogger(mux)
}
