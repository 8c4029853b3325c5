package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
)

func (s *Server) GetSummary(c *gin.Context) {
	ownerID, ok := ownercontext.OwnerIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "from must be RFC3339"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "to must be RFC3339"))
		return
	}

	req := summarydomain.Request{
		From:     from,
		To:       to,
		GroupBy:  summarydomain.GroupBy(strings.ToLower(strings.TrimSpace(c.Query("groupBy")))),
		Currency: strings.TrimSpace(c.Query("currency")),
	}

	resp, err := s.summarySvc.Summarize(c.Request.Context(), ownerID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}
