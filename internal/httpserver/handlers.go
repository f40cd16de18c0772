package httpserver

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mysticbob/apitrace/internal/render"
)

type callView struct {
	No   uint32   `json:"no"`
	Name string   `json:"name"`
	Args []string `json:"args"`
	Ret  *string  `json:"ret,omitempty"`
}

func (s *Server) views() []callView {
	views := make([]callView, len(s.Calls))
	for i, c := range s.Calls {
		v := callView{No: c.No, Name: c.Name()}
		for _, arg := range c.Args {
			v.Args = append(v.Args, arg.String())
		}
		if c.Ret != nil {
			r := c.Ret.String()
			v.Ret = &r
		}
		views[i] = v
	}
	return views
}

func (s *Server) handleCalls(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.views()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCallsNDJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	bw := bufio.NewWriter(w)
	defer bw.Flush() // nolint: errcheck
	enc := json.NewEncoder(bw)
	for _, v := range s.views() {
		if err := enc.Encode(v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func (s *Server) handleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	width := 2000
	if raw := r.URL.Query().Get("width"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			width = parsed
		}
	}
	colors := s.Colors.NColors
	if raw := r.URL.Query().Get("colors"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			colors = parsed
		}
	}
	rule := s.Colors.Rule
	if raw := r.URL.Query().Get("color-rule"); raw != "" {
		if parsed, ok := render.ColorRuleNames[raw]; ok {
			rule = parsed
		}
	}

	tl := render.Timeline{
		Calls:  s.Calls,
		Width:  width,
		Colors: render.Colors{NColors: colors, Rule: rule},
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	tl.Render(w)
}
