package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/repository"
	"github.com/debemdeboas/postdeck/internal/util"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) servePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPosts(w, r)
	case http.MethodPost:
		s.createPost(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) servePost(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		return
	}

	// PathValue is percent-decoded, so the id may carry separators.
	id := model.PostID(r.PathValue("id"))
	if !id.IsPathSegment() {
		s.repoError(w, r, repository.ErrPostNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		post, err := s.repo.Get(r.Context(), id)
		if err != nil {
			s.repoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	case http.MethodPut:
		s.updatePost(w, r, id)
	case http.MethodDelete:
		if err := s.repo.Delete(r.Context(), id); err != nil {
			s.repoError(w, r, err)
			return
		}
		zerolog.Ctx(r.Context()).Info().Str("post_id", id.String()).Msg("Post deleted")
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.repo.List(r.Context())
	if err != nil {
		s.repoError(w, r, err)
		return
	}

	data, err := marshal(posts)
	if err != nil {
		s.repoError(w, r, err)
		return
	}

	etag := util.ETag(data)
	w.Header().Set(config.HETag, etag)
	if etagMatches(r.Header.Get(config.HIfNoneMatch), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	post, err := s.repo.Create(r.Context(), in)
	if err != nil {
		s.repoError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("post_id", post.ID.String()).Str("title", post.Title).Msg("Post created")
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request, id model.PostID) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	post, err := s.repo.Update(r.Context(), id, in)
	if err != nil {
		s.repoError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("post_id", post.ID.String()).Str("title", post.Title).Msg("Post updated")
	writeJSON(w, http.StatusOK, post)
}

// decodeInput reads and validates a post body. It writes the error response
// and returns false when the body is unusable.
func decodeInput(w http.ResponseWriter, r *http.Request) (model.PostInput, bool) {
	var in model.PostInput

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Rejected request body")
		writeError(w, http.StatusBadRequest, config.HTTPErrBadJSON)
		return in, false
	}

	if err := model.ValidatePost(in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return in, false
	}

	return in, true
}

func (s *Server) repoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, config.HTTPErrNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("Storage error")
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, config.HTTPErrMethodNotAllowed)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := marshal(v)
	if err != nil {
		serverLogger.Error().Err(err).Msg("Error encoding response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	w.Write(data)
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// etagMatches implements the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
