package inbox

import (
	"context"
	"sync/atomic"

	"github.com/portfolio/backend/internal/model"
)

// fakeStore is a func-field Store; unset funcs succeed with zero values.
type fakeStore struct {
	currentUserFunc func(ctx context.Context, sess Session) (*User, error)
	signInFunc      func(ctx context.Context, email, password string) (Session, error)
	signOutFunc     func(ctx context.Context, sess Session) error
	listFunc        func(ctx context.Context, sess Session) ([]model.Message, error)
	deleteFunc      func(ctx context.Context, sess Session, id string) error

	signInCalls atomic.Int32
	listCalls   atomic.Int32
	deleteCalls atomic.Int32
	signOutCall atomic.Int32
}

func (f *fakeStore) CurrentUser(ctx context.Context, sess Session) (*User, error) {
	if f.currentUserFunc != nil {
		return f.currentUserFunc(ctx, sess)
	}
	return nil, nil
}

func (f *fakeStore) SignIn(ctx context.Context, email, password string) (Session, error) {
	f.signInCalls.Add(1)
	if f.signInFunc != nil {
		return f.signInFunc(ctx, email, password)
	}
	return Session{Token: "tok"}, nil
}

func (f *fakeStore) SignOut(ctx context.Context, sess Session) error {
	f.signOutCall.Add(1)
	if f.signOutFunc != nil {
		return f.signOutFunc(ctx, sess)
	}
	return nil
}

func (f *fakeStore) ListMessages(ctx context.Context, sess Session) ([]model.Message, error) {
	f.listCalls.Add(1)
	if f.listFunc != nil {
		return f.listFunc(ctx, sess)
	}
	return nil, nil
}

func (f *fakeStore) DeleteMessage(ctx context.Context, sess Session, id string) error {
	f.deleteCalls.Add(1)
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, sess, id)
	}
	return nil
}
