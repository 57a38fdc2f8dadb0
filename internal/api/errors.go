package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
)

// errorStatus maps service errors to HTTP status codes. The first match wins.
var errorStatus = []struct {
	err    error
	status int
}{
	{core.ErrInvalidCredentials, http.StatusUnauthorized},

	{core.ErrAccountDisabled, http.StatusForbidden},
	{core.ErrNotAMember, http.StatusForbidden},
	{core.ErrForbidden, http.StatusForbidden},
	{core.ErrResultsSealed, http.StatusForbidden},

	{core.ErrMemberNotFound, http.StatusNotFound},
	{core.ErrPostNotFound, http.StatusNotFound},
	{core.ErrCommentNotFound, http.StatusNotFound},
	{core.ErrEventNotFound, http.StatusNotFound},
	{core.ErrContributionNotFound, http.StatusNotFound},
	{core.ErrComplaintNotFound, http.StatusNotFound},
	{core.ErrCommitteeMemberNotFound, http.StatusNotFound},
	{core.ErrDocumentNotFound, http.StatusNotFound},
	{core.ErrElectionNotFound, http.StatusNotFound},
	{core.ErrCandidateNotFound, http.StatusNotFound},
	{core.ErrVoteNotFound, http.StatusNotFound},

	{core.ErrInvalidStatus, http.StatusConflict},
	{core.ErrInvalidStatusTransition, http.StatusConflict},
	{core.ErrElectionStarted, http.StatusConflict},
	{core.ErrElectionNotOpen, http.StatusConflict},
	{core.ErrAlreadyVoted, http.StatusConflict},

	{core.ErrInvalidContent, http.StatusBadRequest},
	{core.ErrInvalidUpload, http.StatusBadRequest},
	{core.ErrInvalidPushToken, http.StatusBadRequest},
	{core.ErrInvalidEvent, http.StatusBadRequest},
	{core.ErrInvalidQuery, http.StatusBadRequest},
	{core.ErrTooManyAttachments, http.StatusBadRequest},
	{core.ErrInvalidElection, http.StatusBadRequest},
	{core.ErrInvalidBallot, http.StatusBadRequest},
}

// statusFor returns the HTTP status and the public message for err.
func statusFor(err error) (int, string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "request body too large"
	}
	return http.StatusInternalServerError, "An unexpected internal server error occurred."
}

// respondError writes the error response for err. Server errors are logged
// and their details withheld.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
		return
	}
	details := err.Error()
	if details == msg {
		details = ""
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Details: details})
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
