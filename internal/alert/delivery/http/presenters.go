package http

import (
	"strings"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/paginator"
	postgres "station-alert-srv/pkg/postgre"
	"station-alert-srv/pkg/response"
)

type createReq struct {
	StationCode    string `json:"station_code" binding:"required"`
	AlertType      string `json:"alert_type" binding:"required"`
	Threshold      *int   `json:"threshold" binding:"required"`
	Frequency      string `json:"notification_frequency"`
	UserEmail      string `json:"user_email" binding:"required,email"`
	UserIdentifier string `json:"user_identifier" binding:"required"`
}

func (r createReq) toInput() alert.CreateInput {
	return alert.CreateInput{
		StationCode:    r.StationCode,
		Kind:           r.AlertType,
		Threshold:      *r.Threshold,
		Frequency:      r.Frequency,
		Recipient:      r.UserEmail,
		UserIdentifier: r.UserIdentifier,
	}
}

type updateReq struct {
	Threshold *int    `json:"threshold"`
	IsActive  *bool   `json:"is_active"`
	Frequency *string `json:"notification_frequency"`
}

func (r updateReq) empty() bool {
	return r.Threshold == nil && r.IsActive == nil && r.Frequency == nil
}

func (r updateReq) toInput(id string) alert.UpdateInput {
	return alert.UpdateInput{
		ID:        id,
		Threshold: r.Threshold,
		IsActive:  r.IsActive,
		Frequency: r.Frequency,
	}
}

type listReq struct {
	UserIdentifier string `form:"user_identifier" binding:"required"`
	ActiveOnly     bool   `form:"active_only"`
}

type listHistoryReq struct {
	UserEmail string `form:"user_email" binding:"required"`
	paginator.PaginateQuery
}

type purgeReq struct {
	OlderThan time.Time `json:"older_than" binding:"required"`
}

type alertResp struct {
	ID                   string             `json:"id"`
	StationCode          string             `json:"station_code"`
	AlertType            string             `json:"alert_type"`
	Threshold            int                `json:"threshold"`
	IsActive             bool               `json:"is_active"`
	Frequency            string             `json:"notification_frequency"`
	LastNotificationSent *response.DateTime `json:"last_notification_sent,omitempty"`
	UserEmail            string             `json:"user_email"`
	UserIdentifier       string             `json:"user_identifier"`
	CreatedAt            response.DateTime  `json:"created_at"`
}

func newAlertResp(a model.Alert) alertResp {
	resp := alertResp{
		ID:             a.ID,
		StationCode:    a.StationCode,
		AlertType:      a.Kind.String(),
		Threshold:      a.Threshold,
		IsActive:       a.IsActive,
		Frequency:      string(a.Frequency),
		UserEmail:      a.Recipient,
		UserIdentifier: a.UserIdentifier,
		CreatedAt:      response.DateTime(a.CreatedAt),
	}
	if a.LastNotificationSent != nil {
		t := response.DateTime(*a.LastNotificationSent)
		resp.LastNotificationSent = &t
	}
	return resp
}

type listResp struct {
	Items []alertResp `json:"items"`
}

func newListResp(alerts []model.Alert) listResp {
	items := make([]alertResp, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, newAlertResp(a))
	}
	return listResp{Items: items}
}

type historyItemResp struct {
	ID           string            `json:"id"`
	AlertID      string            `json:"alert_id"`
	StationCode  string            `json:"station_code"`
	StationName  string            `json:"station_name,omitempty"`
	AlertType    string            `json:"alert_type"`
	Threshold    int               `json:"threshold"`
	CurrentValue int               `json:"current_value"`
	Status       string            `json:"status"`
	Error        string            `json:"error,omitempty"`
	SentAt       response.DateTime `json:"sent_at"`
}

type historyResp struct {
	Items []historyItemResp           `json:"items"`
	Meta  paginator.PaginatorResponse `json:"meta"`
}

func newHistoryResp(out alert.ListHistoryOutput) historyResp {
	items := make([]historyItemResp, 0, len(out.Events))
	for _, e := range out.Events {
		items = append(items, historyItemResp{
			ID:           e.ID,
			AlertID:      e.AlertID,
			StationCode:  e.StationCode,
			StationName:  e.StationName,
			AlertType:    e.Kind.String(),
			Threshold:    e.Threshold,
			CurrentValue: e.CurrentValue,
			Status:       string(e.Status),
			Error:        e.Error,
			SentAt:       response.DateTime(e.SentAt),
		})
	}
	return historyResp{Items: items, Meta: out.Paginator.ToResponse()}
}

type phaseResp struct {
	ID    string `json:"id"`
	Phase string `json:"phase"`
}

type purgeResp struct {
	Deleted    int64  `json:"deleted"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

func validateID(id string) error {
	if !postgres.IsValidUUID(strings.TrimSpace(id)) {
		return errInvalidID
	}
	return nil
}
