package http

import (
	"station-alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// Create registers a new alert.
// @Summary Create alert
// @Tags Alert
// @Accept json
// @Produce json
// @Param body body createReq true "Alert"
// @Success 201 {object} alertResp
// @Failure 400 {object} response.Resp
// @Router /api/v1/alerts [POST]
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.alert.delivery.http.Create.ShouldBindJSON: %v", err)
		response.Error(c, errWrongBody, nil)
		return
	}

	a, err := h.uc.Create(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "internal.alert.delivery.http.Create: %v", err)
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.Created(c, newAlertResp(a))
}

// Detail returns one alert.
// @Summary Alert detail
// @Tags Alert
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} alertResp
// @Failure 404 {object} response.Resp
// @Router /api/v1/alerts/{id} [GET]
func (h *Handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := h.processIDParam(c)
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	a, err := h.uc.Detail(ctx, id)
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, newAlertResp(a))
}

// Update patches threshold, active flag or frequency.
// @Summary Update alert
// @Tags Alert
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param body body updateReq true "Patch"
// @Success 200 {object} alertResp
// @Router /api/v1/alerts/{id} [PATCH]
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := h.processIDParam(c)
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.empty() {
		response.Error(c, errWrongBody, nil)
		return
	}

	a, err := h.uc.Update(ctx, req.toInput(id))
	if err != nil {
		h.l.Warnf(ctx, "internal.alert.delivery.http.Update: %v", err)
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, newAlertResp(a))
}

// Delete removes an alert.
// @Summary Delete alert
// @Tags Alert
// @Param id path string true "Alert ID"
// @Success 200 {object} response.Resp
// @Router /api/v1/alerts/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := h.processIDParam(c)
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	if err := h.uc.Delete(ctx, id); err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, nil)
}

// List returns the alerts of a user.
// @Summary List alerts
// @Tags Alert
// @Produce json
// @Param user_identifier query string true "User identifier"
// @Param active_only query bool false "Only active alerts"
// @Success 200 {object} listResp
// @Router /api/v1/alerts [GET]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, errWrongQuery, nil)
		return
	}

	alerts, err := h.uc.List(ctx, alertListInput(req))
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, newListResp(alerts))
}

// Phase reports where the alert stands in the dispatch cycle.
// @Summary Alert dispatch phase
// @Tags Alert
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} phaseResp
// @Router /api/v1/alerts/{id}/phase [GET]
func (h *Handler) Phase(c *gin.Context) {
	if h.engine == nil {
		response.Error(c, errNoEngine, nil)
		return
	}

	id, err := h.processIDParam(c)
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, phaseResp{ID: id, Phase: h.engine.AlertPhase(id).String()})
}

// ListHistory pages through the notifications sent to a recipient.
// @Summary Notification history
// @Tags Notification
// @Produce json
// @Param user_email query string true "Recipient"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} historyResp
// @Router /api/v1/notifications [GET]
func (h *Handler) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()

	var req listHistoryReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, errWrongQuery, nil)
		return
	}

	out, err := h.uc.ListHistory(ctx, historyInput(req))
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, newHistoryResp(out))
}

// PurgeHistory archives and deletes history older than the given time.
// @Summary Purge notification history
// @Tags Notification
// @Accept json
// @Produce json
// @Param body body purgeReq true "Cutoff"
// @Success 200 {object} purgeResp
// @Router /api/v1/notifications/purge [POST]
func (h *Handler) PurgeHistory(c *gin.Context) {
	ctx := c.Request.Context()

	var req purgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errWrongBody, nil)
		return
	}

	out, err := h.uc.PurgeHistory(ctx, req.OlderThan)
	if err != nil {
		h.l.Errorf(ctx, "internal.alert.delivery.http.PurgeHistory: %v", err)
		response.ErrorWithMap(c, err, errorMapping, h.d)
		return
	}

	response.OK(c, purgeResp{Deleted: out.Deleted, ArchiveKey: out.ArchiveKey})
}
