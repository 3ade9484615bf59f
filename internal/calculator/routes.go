package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the keypad and display endpoints onto the given
// router under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Get("/display", h.Display)
		r.Get("/events", h.Events)

		r.Post("/digit", h.Digit)
		r.Post("/operator", h.Operator)
		r.Post("/action", h.Action)
		r.Post("/button", h.Button)
		r.Post("/key", h.Key)
	})
}
