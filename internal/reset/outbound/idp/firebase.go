// Package idp adapts the external identity provider behind the usecase
// interfaces.
package idp

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"
	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/reset/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Firebase resolves accounts and rotates credentials through Firebase Auth.
type Firebase struct {
	client *auth.Client
	ins    instrument.Instrumentation
}

func NewFirebase(client *auth.Client, ins instrument.Instrumentation) *Firebase {
	return &Firebase{client: client, ins: ins}
}

func (f *Firebase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return f.ins.Tracer("reset.outbound.idp").Start(ctx, name)
}

func (f *Firebase) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Lookup resolves the account for the given email.
func (f *Firebase) Lookup(ctx context.Context, email string) (account *entity.Account, err error) {
	ctx, span := f.startSpan(ctx, "Lookup")
	defer func() { f.endSpan(span, err) }()

	user, err := f.client.GetUserByEmail(ctx, email)
	if auth.IsUserNotFound(err) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entity.Account{
		ID:    user.UID,
		Email: user.Email,
	}, nil
}

// UpdateCredential replaces the account password.
func (f *Firebase) UpdateCredential(ctx context.Context, accountID, newPassword string) (err error) {
	ctx, span := f.startSpan(ctx, "UpdateCredential")
	defer func() { f.endSpan(span, err) }()

	_, err = f.client.UpdateUser(ctx, accountID, (&auth.UserToUpdate{}).Password(newPassword))
	if auth.IsUserNotFound(err) {
		return goerror.ErrNotFound
	}
	return err
}
