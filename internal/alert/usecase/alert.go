package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/model"
)

func (uc *implUseCase) Create(ctx context.Context, input alert.CreateInput) (model.Alert, error) {
	a, err := validateCreate(input)
	if err != nil {
		return model.Alert{}, err
	}

	created, err := uc.repo.Create(ctx, repository.CreateOptions{Alert: a})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.Create: %v", err)
		return model.Alert{}, err
	}
	uc.InvalidateStation(created.StationCode)
	return created, nil
}

func validateCreate(input alert.CreateInput) (model.Alert, error) {
	station := strings.TrimSpace(input.StationCode)
	recipient := strings.TrimSpace(input.Recipient)
	user := strings.TrimSpace(input.UserIdentifier)
	switch {
	case station == "":
		return model.Alert{}, alert.ErrStationRequired
	case recipient == "":
		return model.Alert{}, alert.ErrRecipientRequired
	case user == "":
		return model.Alert{}, alert.ErrUserRequired
	}

	kind, err := model.ParseAlertKind(input.Kind)
	if err != nil {
		return model.Alert{}, fmt.Errorf("%w: %v", alert.ErrInvalidInput, err)
	}
	freq, err := model.ParseFrequency(input.Frequency)
	if err != nil {
		return model.Alert{}, fmt.Errorf("%w: %v", alert.ErrInvalidInput, err)
	}

	a := model.Alert{
		StationCode:    station,
		Kind:           kind,
		Threshold:      input.Threshold,
		IsActive:       true,
		Frequency:      freq,
		Recipient:      recipient,
		UserIdentifier: user,
	}
	if err := a.Validate(); err != nil {
		return model.Alert{}, fmt.Errorf("%w: %v", alert.ErrInvalidInput, err)
	}
	return a, nil
}

func (uc *implUseCase) Detail(ctx context.Context, id string) (model.Alert, error) {
	a, err := uc.repo.Detail(ctx, id)
	if err != nil {
		return model.Alert{}, uc.mapRepoError(ctx, "Detail", err)
	}
	return a, nil
}

func (uc *implUseCase) Update(ctx context.Context, input alert.UpdateInput) (model.Alert, error) {
	opts := repository.UpdateOptions{
		ID:        input.ID,
		Threshold: input.Threshold,
		IsActive:  input.IsActive,
	}
	if input.Threshold != nil && *input.Threshold < 0 {
		return model.Alert{}, fmt.Errorf("%w: %v", alert.ErrInvalidInput, model.ErrNegativeThreshold)
	}
	if input.Frequency != nil {
		freq, err := model.ParseFrequency(*input.Frequency)
		if err != nil {
			return model.Alert{}, fmt.Errorf("%w: %v", alert.ErrInvalidInput, err)
		}
		opts.Frequency = &freq
	}

	a, err := uc.repo.Update(ctx, opts)
	if err != nil {
		return model.Alert{}, uc.mapRepoError(ctx, "Update", err)
	}

	// Toggling the active flag restarts evaluation from a fresh baseline.
	if input.IsActive != nil {
		uc.states.forget(a.ID)
	}
	uc.InvalidateStation(a.StationCode)
	return a, nil
}

func (uc *implUseCase) Delete(ctx context.Context, id string) error {
	a, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return uc.mapRepoError(ctx, "Delete", err)
	}
	uc.states.forget(a.ID)
	uc.InvalidateStation(a.StationCode)
	return nil
}

func (uc *implUseCase) List(ctx context.Context, input alert.ListInput) ([]model.Alert, error) {
	if strings.TrimSpace(input.UserIdentifier) == "" {
		return nil, alert.ErrUserRequired
	}
	alerts, err := uc.repo.List(ctx, repository.ListOptions{
		UserIdentifier: input.UserIdentifier,
		ActiveOnly:     input.ActiveOnly,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.List: %v", err)
		return nil, err
	}
	return alerts, nil
}

func (uc *implUseCase) ListHistory(ctx context.Context, input alert.ListHistoryInput) (alert.ListHistoryOutput, error) {
	if strings.TrimSpace(input.Recipient) == "" {
		return alert.ListHistoryOutput{}, alert.ErrRecipientRequired
	}
	input.PaginateQuery.Adjust()

	events, pag, err := uc.repo.ListHistory(ctx, repository.ListHistoryOptions{
		Recipient:     input.Recipient,
		PaginateQuery: input.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.ListHistory: %v", err)
		return alert.ListHistoryOutput{}, err
	}
	return alert.ListHistoryOutput{Events: events, Paginator: pag}, nil
}

func (uc *implUseCase) mapRepoError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		return alert.ErrAlertNotFound
	}
	uc.l.Errorf(ctx, "internal.alert.usecase.%s: %v", op, err)
	return err
}
