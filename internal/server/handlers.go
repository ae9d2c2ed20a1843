package server

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/matzehuels/postcard/pkg/buildinfo"
	"github.com/matzehuels/postcard/pkg/catalog"
	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok", "version": buildinfo.Version})
}

type styleResponse struct {
	ID              string   `json:"id"`
	Fill            [4]uint8 `json:"fill"`
	Stroke          [4]uint8 `json:"stroke"`
	StrokeWidth     int      `json:"stroke_width"`
	BodyStrokeWidth int      `json:"body_stroke_width"`
}

func (s *Server) handleListStyles(w http.ResponseWriter, r *http.Request) {
	all := s.runner.Styles.All()
	out := make([]styleResponse, len(all))
	for i, st := range all {
		out[i] = styleResponse{
			ID:              st.ID,
			Fill:            [4]uint8{st.Fill.R, st.Fill.G, st.Fill.B, st.Fill.A},
			Stroke:          [4]uint8{st.Stroke.R, st.Stroke.G, st.Stroke.B, st.Stroke.A},
			StrokeWidth:     st.TitleStrokeWidth(),
			BodyStrokeWidth: st.BodyStrokeWidth(),
		}
	}
	render.JSON(w, r, out)
}

func (s *Server) handleListOccasions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.occasions.All())
}

type backgroundResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

func (s *Server) handleListBackgrounds(w http.ResponseWriter, r *http.Request) {
	bgs, err := catalog.ScanBackgrounds(s.backgroundsDir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := []backgroundResponse{}
	for i, name := range bgs.Names() {
		out = append(out, backgroundResponse{Index: i, Name: name})
	}
	render.JSON(w, r, out)
}

// createCardsRequest is the POST body. Exactly one of Occasion and Title
// must be set. Without Message, TextIndex picks one of the occasion's stock
// texts.
type createCardsRequest struct {
	Background string   `json:"background"`
	Occasion   string   `json:"occasion,omitempty"`
	Title      string   `json:"title,omitempty"`
	Message    string   `json:"message,omitempty"`
	TextIndex  *int     `json:"text_index,omitempty"`
	Styles     []string `json:"styles,omitempty"`
	BestEffort bool     `json:"best_effort,omitempty"`
}

// Bind implements render.Binder.
func (req *createCardsRequest) Bind(r *http.Request) error {
	if req.Background == "" {
		return errors.New(errors.ErrCodeInvalidInput, "background is required")
	}
	if (req.Occasion == "") == (strings.TrimSpace(req.Title) == "") {
		return errors.New(errors.ErrCodeInvalidInput, "exactly one of occasion and title is required")
	}
	if req.TextIndex != nil && req.Message != "" {
		return errors.New(errors.ErrCodeInvalidInput, "message and text_index are mutually exclusive")
	}
	return nil
}

type cardResponse struct {
	Style  string `json:"style,omitempty"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Cached bool   `json:"cached,omitempty"`
}

type layoutResponse struct {
	TitleSize  int      `json:"title_size"`
	TitleLines []string `json:"title_lines"`
	BodySize   int      `json:"body_size"`
	BodyLines  []string `json:"body_lines"`
}

type createCardsResponse struct {
	Cards  []cardResponse `json:"cards"`
	Layout layoutResponse `json:"layout"`
	Error  string         `json:"error,omitempty"`
}

func (s *Server) handleCreateCards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var body createCardsRequest
	if err := render.Bind(r, &body); err != nil {
		if errors.GetCode(err) == "" {
			s.badRequest(w, r, "invalid JSON body")
			return
		}
		s.writeError(w, r, err)
		return
	}

	req, err := s.resolve(userID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.CreateCards(r.Context(), req)
	if res == nil || len(res.Cards) == 0 {
		if err == nil {
			err = errors.New(errors.ErrCodeInternal, "no cards rendered")
		}
		s.writeError(w, r, err)
		return
	}

	out := createCardsResponse{
		Layout: layoutResponse{
			TitleSize:  res.Layout.TitleSize,
			TitleLines: res.Layout.TitleLines(),
			BodySize:   res.Layout.BodySize,
			BodyLines:  res.Layout.BodyLines(),
		},
	}
	for _, c := range res.Cards {
		name := filepath.Base(c.Path)
		out.Cards = append(out.Cards, cardResponse{
			Style:  c.StyleID,
			Name:   name,
			URL:    s.cardURL(userID, name),
			Cached: c.Cached,
		})
	}
	if err != nil {
		s.logger.Warn("partial render", "user", userID, "error", err)
		out.Error = errors.UserMessage(err)
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, out)
}

// resolve turns the request body into a pipeline request.
func (s *Server) resolve(userID string, body createCardsRequest) (pipeline.Request, error) {
	bgs, err := catalog.ScanBackgrounds(s.backgroundsDir)
	if err != nil {
		return pipeline.Request{}, err
	}
	bg, err := bgs.Resolve(body.Background)
	if err != nil {
		return pipeline.Request{}, err
	}

	title, message := body.Title, body.Message
	if body.Occasion != "" {
		oc, err := s.occasions.Get(body.Occasion)
		if err != nil {
			return pipeline.Request{}, err
		}
		title = oc.Title
		if body.TextIndex != nil {
			text, ok := oc.Text(*body.TextIndex)
			if !ok {
				return pipeline.Request{}, errors.New(errors.ErrCodeInvalidInput, "occasion %q has no stock texts", oc.Key)
			}
			message = text
		}
	} else if body.TextIndex != nil {
		return pipeline.Request{}, errors.New(errors.ErrCodeInvalidInput, "text_index needs an occasion")
	}

	return pipeline.Request{
		UserID:     userID,
		Background: bg,
		Title:      title,
		Message:    message,
		Styles:     body.Styles,
		BestEffort: body.BestEffort,
	}, nil
}

func (s *Server) cardURL(userID, name string) string {
	return s.publicURL + "/api/v1/users/" + url.PathEscape(userID) + "/cards/" + url.PathEscape(name)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	paths, err := s.store.Images(userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := []cardResponse{}
	for _, p := range paths {
		name := filepath.Base(p)
		out = append(out, cardResponse{Name: name, URL: s.cardURL(userID, name)})
	}
	render.JSON(w, r, map[string]any{"cards": out})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	f, err := s.store.Open(chi.URLParam(r, "userID"), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleClearCards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var err error
	if r.URL.Query().Get("remove") == "true" {
		err = s.store.Remove(userID)
	} else {
		err = s.store.Clear(userID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

