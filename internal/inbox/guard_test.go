package inbox

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		user *User
		err  error
		want Access
	}{
		{"no session", Session{}, &User{ID: "u"}, nil, Unauthenticated},
		{"known user", Session{Token: "t"}, &User{ID: "u"}, nil, Authenticated},
		{"no user", Session{Token: "t"}, nil, nil, Unauthenticated},
		{"lookup error", Session{Token: "t"}, &User{ID: "u"}, errors.New("timeout"), Unauthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{currentUserFunc: func(context.Context, Session) (*User, error) {
				return tc.user, tc.err
			}}
			assert.Equal(t, tc.want, NewGuard(store).CheckAccess(context.Background(), tc.sess))
		})
	}
}

func TestCheckAccess_NoRetry(t *testing.T) {
	var calls atomic.Int32
	store := &fakeStore{currentUserFunc: func(context.Context, Session) (*User, error) {
		calls.Add(1)
		return nil, errors.New("flaky")
	}}
	NewGuard(store).CheckAccess(context.Background(), Session{Token: "t"})
	assert.EqualValues(t, 1, calls.Load())
}

func TestEnter_Authenticated(t *testing.T) {
	store := storeABC()
	store.currentUserFunc = func(context.Context, Session) (*User, error) {
		return &User{ID: "admin"}, nil
	}

	c, access := Enter(context.Background(), store, Session{Token: "t"})
	require.Equal(t, Authenticated, access)
	require.NotNil(t, c)
	v := c.View()
	assert.False(t, v.Loading)
	assert.Equal(t, []string{"B", "A", "C"}, ids(v.Messages))
}

func TestEnter_UnauthenticatedDiscardsController(t *testing.T) {
	store := storeABC()
	c, access := Enter(context.Background(), store, Session{Token: "stale"})
	assert.Equal(t, Unauthenticated, access)
	assert.Nil(t, c)
}

// The check and the load do not wait on each other: the load completes while
// the check is still blocked, and vice versa.
func TestEnter_CheckAndLoadRunConcurrently(t *testing.T) {
	loadDone := make(chan struct{})
	checkDone := make(chan struct{})
	store := &fakeStore{
		currentUserFunc: func(ctx context.Context, _ Session) (*User, error) {
			select {
			case <-loadDone:
			case <-time.After(2 * time.Second):
				return nil, errors.New("load never ran while check was pending")
			}
			close(checkDone)
			return &User{ID: "admin"}, nil
		},
		listFunc: func(context.Context, Session) ([]model.Message, error) {
			close(loadDone)
			return []model.Message{msgAt("A", 10)}, nil
		},
	}

	c, access := Enter(context.Background(), store, Session{Token: "t"})
	require.Equal(t, Authenticated, access)
	<-checkDone
	assert.Len(t, c.View().Messages, 1)
}
