package server

import "github.com/go-chi/chi/v5"

func (s *Server) setupRoutes() {
	r := s.router

	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.createSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/mode", s.setSessionMode)
			r.Post("/message", s.addMessage)
			r.Post("/compact", s.compactSession)
			r.Post("/turn", s.runTurn)
		})
	})

	r.Get("/tool", s.listTools)

	r.Route("/mcp", func(r chi.Router) {
		r.Get("/", s.listMCPServers)
		r.Post("/", s.addMCPServer)
		r.Delete("/{name}", s.removeMCPServer)
	})

	r.Get("/event", s.streamEvents)
}
