package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkoller/domainmap/pkg/errors"
	"github.com/mkoller/domainmap/pkg/graph"
	"github.com/mkoller/domainmap/pkg/hierarchy"
	"github.com/mkoller/domainmap/pkg/pipeline"
	"github.com/mkoller/domainmap/pkg/session"
	"github.com/mkoller/domainmap/pkg/tabular"
)

// ===== Datasets =====

type datasetResponse struct {
	Dataset   string `json:"dataset"`
	NodeCount int    `json:"node_count"`
}

// handleCreateDataset accepts a workbook JSON body, assembles it and persists
// the node table under its content hash. Uploading the same workbook twice is
// idempotent.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	wb, err := tabular.ReadJSON(r.Body)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "parsing workbook"))
		return
	}
	if err := wb.Validate(); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "validating workbook"))
		return
	}

	tree, err := s.runner.Assemble(r.Context(), wb, pipeline.Options{})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "assembling workbook"))
		return
	}

	dataset := wb.Hash()
	if err := s.store.SaveTable(r.Context(), dataset, graph.FromTree(tree)); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "saving dataset"))
		return
	}

	writeJSON(w, http.StatusCreated, datasetResponse{Dataset: dataset, NodeCount: tree.Len()})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.Datasets(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "listing datasets"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"datasets": ids})
}

func (s *Server) handleDatasetNodes(w http.ResponseWriter, r *http.Request) {
	tbl, err := s.loadTable(r, chi.URLParam(r, "dataset"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

// loadTable fetches a dataset's node table, mapping absence to a coded error.
func (s *Server) loadTable(r *http.Request, dataset string) (graph.Table, error) {
	tbl, ok, err := s.store.LoadTable(r.Context(), dataset)
	if err != nil {
		return graph.Table{}, errors.Wrap(errors.ErrCodeInternal, err, "loading dataset")
	}
	if !ok {
		return graph.Table{}, errors.New(errors.ErrCodeDatasetNotFound, "no dataset %q", dataset)
	}
	return tbl, nil
}

// ===== Sessions =====

type createSessionRequest struct {
	Dataset string `json:"dataset"`
}

// handleCreateSession creates a focus session over an existing dataset.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing request"))
		return
	}
	if _, err := s.loadTable(r, req.Dataset); err != nil {
		writeError(w, err)
		return
	}

	sess := session.New(req.Dataset, session.DefaultTTL)
	if err := s.sessions.Set(sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "storing session"))
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "session")); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "deleting session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session fetches the request's session, mapping absence to a coded error.
func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "session")
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "loading session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "no session %q", id)
	}
	return sess, nil
}

// ===== Views =====

// handleView resolves the session's current focus into a highlighted view.
// The leaf_deps query parameter overrides the server default for this
// request.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tree, err := s.treeFor(r, sess.Dataset)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{LeafDeps: s.LeafDeps}
	switch r.URL.Query().Get("leaf_deps") {
	case "true":
		opts.LeafDeps = true
	case "false":
		opts.LeafDeps = false
	}

	view, err := s.runner.ResolveView(r.Context(), tree, sess.Dataset, sess.FocusID(), opts)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "resolving view"))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type focusRequest struct {
	ID string `json:"id"`
}

type focusResponse struct {
	Focus   string `json:"focus"`
	Changed bool   `json:"changed"`
}

// handleFocus records a node selection on the session. An empty ID is a
// no-op; an unknown ID is rejected.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req focusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing request"))
		return
	}

	if req.ID != "" {
		tree, err := s.treeFor(r, sess.Dataset)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, ok := tree.Node(req.ID); !ok {
			writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no node %q", req.ID))
			return
		}
	}

	changed := sess.SetFocus(req.ID)
	if changed {
		if err := s.sessions.Set(sess); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "storing session"))
			return
		}
	}
	writeJSON(w, http.StatusOK, focusResponse{Focus: sess.FocusID(), Changed: changed})
}

type searchRequest struct {
	Term string `json:"term"`
}

type searchResponse struct {
	Focus   string `json:"focus"`
	Matched bool   `json:"matched"`
}

// handleSearch focuses the first node whose label contains the term. A miss
// leaves the focus unchanged and is not an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing request"))
		return
	}
	tree, err := s.treeFor(r, sess.Dataset)
	if err != nil {
		writeError(w, err)
		return
	}

	id, matched := sess.ResolveSearch(req.Term, tree)
	if matched {
		if err := s.sessions.Set(sess); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "storing session"))
			return
		}
	}
	writeJSON(w, http.StatusOK, searchResponse{Focus: id, Matched: matched})
}

// handleReset clears the session's focus.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Clear()
	if err := s.sessions.Set(sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "storing session"))
		return
	}
	writeJSON(w, http.StatusOK, focusResponse{Focus: ""})
}

// treeFor rebuilds the tree for a stored dataset.
func (s *Server) treeFor(r *http.Request, dataset string) (*hierarchy.Tree, error) {
	tbl, err := s.loadTable(r, dataset)
	if err != nil {
		return nil, err
	}
	tree, err := graph.ToTree(tbl)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rebuilding tree")
	}
	return tree, nil
}

// ===== Response Helpers =====

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidWorkbook, errors.ErrCodeInvalidFocus, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeDatasetNotFound, errors.ErrCodeSessionNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		status = http.StatusGone
	case "":
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}
