package http

import (
	"station-alert-srv/internal/alert"

	"github.com/gin-gonic/gin"
)

func (h *Handler) processIDParam(c *gin.Context) (string, error) {
	id := c.Param("id")
	if err := validateID(id); err != nil {
		h.l.Warnf(c.Request.Context(), "internal.alert.delivery.http.processIDParam: %q: %v", id, err)
		return "", err
	}
	return id, nil
}

func alertListInput(req listReq) alert.ListInput {
	return alert.ListInput{UserIdentifier: req.UserIdentifier, ActiveOnly: req.ActiveOnly}
}

func historyInput(req listHistoryReq) alert.ListHistoryInput {
	return alert.ListHistoryInput{Recipient: req.UserEmail, PaginateQuery: req.PaginateQuery}
}
