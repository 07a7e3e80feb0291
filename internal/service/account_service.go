package service

import (
	"context"
	"time"

	"cafe-storefront/internal/broker"
	"cafe-storefront/internal/models"
	"cafe-storefront/internal/util"
	"cafe-storefront/internal/view"

	"go.uber.org/zap"
)

// Login signs a member in. The email stays in the draft; the password is
// only held for the duration of the call.
func (s *Storefront) Login(ctx context.Context, id string, form models.LoginForm) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.Login")
	defer span.End()

	var seq uint64
	_, err := s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		st.LoginDraft = models.LoginForm{Email: form.Email}
		seq = st.Sequence.Issue(view.SlotLogin)
		return nil
	})
	if err != nil {
		return nil, err
	}

	user, apiErr := s.api.Login(ctx, &models.LoginRequest{Email: form.Email, Password: form.Password})
	if apiErr != nil {
		s.logAPIError(id, "Login failed", apiErr)
	}

	var signedIn bool
	st, err := s.apply(ctx, id, view.SlotLogin, seq, func(st *view.State, now time.Time) {
		signedIn = false
		if apiErr != nil {
			s.alert(st, msgLoginFailed, view.SeverityError, now)
			return
		}
		st.CurrentUser = user
		s.alert(st, msgSignedIn, view.SeveritySuccess, now)
		signedIn = true
	})
	if err != nil {
		return nil, err
	}

	if signedIn {
		s.logger.Info("Customer signed in", zap.String("view_id", id), zap.Int64("customer_id", user.CustomerID))
		s.events.PublishAccountEvent(ctx, &models.AccountEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeCustomerSignedIn, id),
			Email:     form.Email,
		})
	}
	return st, nil
}

// Register creates a member account. On success both account drafts reset;
// on failure the registration draft is kept without its password.
func (s *Storefront) Register(ctx context.Context, id string, form models.RegisterForm) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.Register")
	defer span.End()

	var seq uint64
	_, err := s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		draft := form
		draft.Password = ""
		st.RegisterDraft = draft
		seq = st.Sequence.Issue(view.SlotRegister)
		return nil
	})
	if err != nil {
		return nil, err
	}

	apiErr := s.api.Register(ctx, &models.RegisterRequest{
		Name:        form.Name,
		Email:       form.Email,
		Password:    form.Password,
		Phone:       form.Phone,
		Address:     form.Address,
		DateOfBirth: form.DateOfBirth,
	})
	if apiErr != nil {
		s.logAPIError(id, "Registration failed", apiErr)
	}

	var registered bool
	st, err := s.apply(ctx, id, view.SlotRegister, seq, func(st *view.State, now time.Time) {
		registered = false
		if apiErr != nil {
			s.alert(st, msgRegisterFailed, view.SeverityError, now)
			return
		}
		st.RegisterDraft = models.RegisterForm{}
		st.LoginDraft = models.LoginForm{}
		s.alert(st, msgRegistered, view.SeveritySuccess, now)
		registered = true
	})
	if err != nil {
		return nil, err
	}

	if registered {
		s.events.PublishAccountEvent(ctx, &models.AccountEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeCustomerRegistered, id),
			Email:     form.Email,
		})
	}
	return st, nil
}
