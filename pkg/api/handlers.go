package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stargazer/pkg/auth"
)

// maxFormBytes bounds the /token request body.
const maxFormBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleToken implements the OAuth2 password grant: form fields username
// and password, plus an optional grant_type that must be "password".
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, &validationError{fields: []FieldError{{
			Type: "form_invalid", Loc: []string{"body"}, Msg: err.Error(),
		}}})
		return
	}

	var fields []FieldError
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" {
		fields = append(fields, missingField("username"))
	}
	if password == "" {
		fields = append(fields, missingField("password"))
	}
	if gt, ok := r.PostForm["grant_type"]; ok && (len(gt) != 1 || gt[0] != "password") {
		fields = append(fields, FieldError{
			Type: "string_pattern_mismatch",
			Loc:  []string{"body", "grant_type"},
			Msg:  "String should match pattern '^password$'",
		})
	}
	if len(fields) > 0 {
		writeError(w, r, &validationError{fields: fields})
		return
	}

	u, err := auth.Authenticate(r.Context(), s.store, username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tok, err := s.guard.Issue(u.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	loggerFrom(r).Debug("issued token", "user", u.Username)
	writeJSON(w, http.StatusOK, tok)
}

func missingField(name string) FieldError {
	return FieldError{Type: "missing", Loc: []string{"body", name}, Msg: "Field required"}
}

// handleStarNeighbours runs one resolution per request. A resolution cut
// short by the client going away is not a GitHub failure and gets no reply.
func (s *Server) handleStarNeighbours(w http.ResponseWriter, r *http.Request) {
	owner, repo := chi.URLParam(r, "user"), chi.URLParam(r, "repo")
	logger := loggerFrom(r).With("repo", owner+"/"+repo)
	if u, ok := UserFrom(r.Context()); ok {
		logger = logger.With("user", u.Username)
	}

	res, err := s.resolver.Resolve(r.Context(), owner, repo)
	if err != nil {
		if r.Context().Err() != nil {
			logger.Debug("client went away", "err", err)
			return
		}
		writeError(w, r, err)
		return
	}
	logger.Debug("resolved star neighbours", "neighbours", len(res))
	writeJSON(w, http.StatusOK, res)
}
