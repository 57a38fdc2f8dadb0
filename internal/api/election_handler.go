package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// ElectionHandler serves elections, ballots and results.
type ElectionHandler struct {
	elections core.ElectionService
	logger    *zap.Logger
}

// NewElectionHandler creates a new ElectionHandler.
func NewElectionHandler(elections core.ElectionService, logger *zap.Logger) *ElectionHandler {
	return &ElectionHandler{elections: elections, logger: logger}
}

// List handles GET /elections
func (h *ElectionHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	elections, err := h.elections.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// Get handles GET /elections/:electionId
func (h *ElectionHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	e, err := h.elections.Get(c.Request.Context(), actor, c.Param("electionId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Create handles POST /elections
func (h *ElectionHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	e, err := h.elections.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// AddCandidate handles POST /elections/:electionId/candidates (multipart,
// optional file "photo").
func (h *ElectionHandler) AddCandidate(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CreateCandidateRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	photo, closeFn, found, err := formFile(c, "photo")
	if err != nil {
		uploadError(c, err)
		return
	}
	defer closeFn()
	var photoPtr *core.Upload
	if found {
		photoPtr = &photo
	}
	candidate, err := h.elections.AddCandidate(c.Request.Context(), actor, c.Param("electionId"), req, photoPtr)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// DeleteCandidate handles DELETE /elections/:electionId/candidates/:candidateId
func (h *ElectionHandler) DeleteCandidate(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.elections.DeleteCandidate(c.Request.Context(), actor, c.Param("electionId"), c.Param("candidateId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CastVote handles POST /elections/:electionId/votes
func (h *ElectionHandler) CastVote(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	vote, err := h.elections.CastVote(c.Request.Context(), actor, c.Param("electionId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, vote)
}

// MyVote handles GET /elections/:electionId/votes/me
func (h *ElectionHandler) MyVote(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	vote, err := h.elections.MyVote(c.Request.Context(), actor, c.Param("electionId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vote)
}

// Results handles GET /elections/:electionId/results
func (h *ElectionHandler) Results(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	res, err := h.elections.Results(c.Request.Context(), actor, c.Param("electionId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StreamResults handles GET /elections/:electionId/results/stream: a
// "results" event with the full tally after every ballot.
func (h *ElectionHandler) StreamResults(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	streamEvents(c, h.logger, func(send func(string, interface{}) error) error {
		return h.elections.WatchResults(c.Request.Context(), actor, c.Param("electionId"), func(res *models.ElectionResults) error {
			return send("results", res)
		})
	})
}
