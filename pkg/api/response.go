package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargazer/pkg/auth"
	"github.com/matzehuels/stargazer/pkg/errors"
	"github.com/matzehuels/stargazer/pkg/integrations/github"
	"github.com/matzehuels/stargazer/pkg/users"
)

// Messages returned in error envelopes.
const (
	msgInvalidInput     = "Invalid input"
	msgBadCredentials   = "Incorrect username or password"
	msgInvalidToken     = "Could not validate credentials"
	msgInactiveUser     = "Inactive user"
	msgGitHubAPI        = "Bad Gateway for GitHub API"
	msgDatabase         = "Database not available"
	msgNotFound         = "Not Found"
	msgMethodNotAllowed = "Method Not Allowed"
	msgInternal         = "Internal Server Error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Detail  any    `json:"detail,omitempty"`
}

// GitHubDetail is the detail of a 502 response.
type GitHubDetail struct {
	GitHubAPIMessage json.RawMessage `json:"github_api_message"`
}

// FieldError describes one invalid request field in a 422 response.
type FieldError struct {
	Type string   `json:"type"`
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
}

// validationError carries field errors to writeError.
type validationError struct {
	fields []FieldError
}

func (e *validationError) Error() string { return msgInvalidInput }

var (
	errInactiveUser = errors.New(errors.ErrCodeForbidden, "inactive user")
	errNotFound     = errors.New(errors.ErrCodeNotFound, "no such route")
	errMethod       = errors.New(errors.ErrCodeInvalidInput, "method not allowed")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("write response", "err", err)
	}
}

// writeError maps err to a status code and envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse(err)
	if resp.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if resp.Status >= http.StatusInternalServerError {
		loggerFrom(r).Error("request failed", "err", err)
	}
	writeJSON(w, resp.Status, resp)
}

func errorResponse(err error) ErrorResponse {
	var (
		apiErr *github.RemoteAPIError
		valErr *validationError
	)
	switch {
	case stderrors.As(err, &valErr):
		return ErrorResponse{Message: msgInvalidInput, Status: http.StatusUnprocessableEntity, Detail: valErr.fields}
	case stderrors.Is(err, auth.ErrBadCredentials):
		return ErrorResponse{Message: msgBadCredentials, Status: http.StatusUnauthorized}
	case stderrors.Is(err, auth.ErrInvalidToken):
		return ErrorResponse{Message: msgInvalidToken, Status: http.StatusUnauthorized}
	case stderrors.Is(err, errInactiveUser):
		return ErrorResponse{Message: msgInactiveUser, Status: http.StatusForbidden}
	case stderrors.As(err, &apiErr):
		return ErrorResponse{
			Message: msgGitHubAPI,
			Status:  http.StatusBadGateway,
			Detail:  GitHubDetail{GitHubAPIMessage: apiErr.Body},
		}
	case stderrors.Is(err, users.ErrUnavailable):
		return ErrorResponse{Message: msgDatabase, Status: http.StatusServiceUnavailable}
	case stderrors.Is(err, errNotFound):
		return ErrorResponse{Message: msgNotFound, Status: http.StatusNotFound}
	case stderrors.Is(err, errMethod):
		return ErrorResponse{Message: msgMethodNotAllowed, Status: http.StatusMethodNotAllowed}
	default:
		return ErrorResponse{Message: msgInternal, Status: http.StatusInternalServerError}
	}
}
