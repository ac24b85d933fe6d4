package store

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIServer serves crawl runs and stored records over HTTP.
type APIServer struct {
	store *RecordStore
}

// NewAPIServer creates a new read API server.
func NewAPIServer(store *RecordStore) *APIServer {
	return &APIServer{
		store: store,
	}
}

// SetupRouter configures the Gin router with all read API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/runs", s.HandleListRuns)
	api.GET("/runs/:id", s.HandleGetRun)
	api.GET("/bouts", s.HandleListBouts)
	api.GET("/bouts/:id", s.HandleGetBout)
	api.GET("/fighters", s.HandleListFighters)
	api.GET("/fighters/:id", s.HandleGetFighter)

	return router
}

// ListRunsResponse represents the response for GET /api/v1/runs.
type ListRunsResponse struct {
	Runs  []Run `json:"runs"`
	Total int   `json:"total"`
}

// ListBoutsResponse represents the response for GET /api/v1/bouts.
type ListBoutsResponse struct {
	Bouts []BoutEntry `json:"bouts"`
	Total int         `json:"total"`
}

// ListFightersResponse represents the response for GET /api/v1/fighters.
type ListFightersResponse struct {
	Fighters []FighterEntry `json:"fighters"`
	Total    int            `json:"total"`
}

var errInvalidPaging = errors.New("limit and offset must be non-negative integers")

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRunNotFound),
		errors.Is(err, ErrBoutNotFound),
		errors.Is(err, ErrFighterNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, errInvalidPaging):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleListRuns handles GET /api/v1/runs.
func (s *APIServer) HandleListRuns(c *gin.Context) {
	limit, _, err := pagingParams(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{
		Runs:  nonNil(runs),
		Total: len(runs),
	})
}

// HandleGetRun handles GET /api/v1/runs/{id}.
func (s *APIServer) HandleGetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid run ID"))
		return
	}

	run, err := s.store.GetRun(runID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// HandleListBouts handles GET /api/v1/bouts.
func (s *APIServer) HandleListBouts(c *gin.Context) {
	filter := BoutFilter{}

	runID, ok := runIDParam(c)
	if !ok {
		return
	}
	filter.RunID = runID

	if eventID := c.Query("event_id"); eventID != "" {
		filter.EventID = &eventID
	}

	var err error
	filter.Limit, filter.Offset, err = pagingParams(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	bouts, err := s.store.ListBouts(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListBoutsResponse{
		Bouts: nonNil(bouts),
		Total: len(bouts),
	})
}

// HandleGetBout handles GET /api/v1/bouts/{id}.
func (s *APIServer) HandleGetBout(c *gin.Context) {
	bout, err := s.store.GetBout(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, bout)
}

// HandleListFighters handles GET /api/v1/fighters.
func (s *APIServer) HandleListFighters(c *gin.Context) {
	filter := FighterFilter{}

	runID, ok := runIDParam(c)
	if !ok {
		return
	}
	filter.RunID = runID

	var err error
	filter.Limit, filter.Offset, err = pagingParams(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	fighters, err := s.store.ListFighters(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListFightersResponse{
		Fighters: nonNil(fighters),
		Total:    len(fighters),
	})
}

// HandleGetFighter handles GET /api/v1/fighters/{id}.
func (s *APIServer) HandleGetFighter(c *gin.Context) {
	fighter, err := s.store.GetFighter(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, fighter)
}

// runIDParam reads the optional run_id query parameter. It writes a 400
// response and returns false when the value is not a UUID.
func runIDParam(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("run_id")
	if raw == "" {
		return nil, true
	}

	runID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid run ID"))
		return nil, false
	}
	return &runID, true
}

func pagingParams(c *gin.Context) (limit, offset int, err error) {
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &limit}, {"offset", &offset}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			return 0, 0, errInvalidPaging
		}
		*p.dst = n
	}
	return limit, offset, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
