package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/proteinpal/config"
	"github.com/pageza/proteinpal/internal/api"
	"github.com/pageza/proteinpal/internal/mocks"
	"github.com/pageza/proteinpal/internal/session"
	"github.com/pageza/proteinpal/internal/testhelpers"
)

func TestNew(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	trk := new(mocks.MockTracker)

	cfg := &config.Config{
		ServerHost:  "127.0.0.1",
		ServerPort:  "0",
		FrontendURL: "http://localhost:5173",
	}
	srv := New(cfg, api.Dependencies{
		DB:       db,
		Sessions: session.NewManager(session.NewGormStore(db), trk, time.Hour),
		Tracker:  trk,
	})
	require.NotNil(t, srv)
	assert.Equal(t, "127.0.0.1:0", srv.http.Addr)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	trk := new(mocks.MockTracker)
	srv := New(&config.Config{ServerHost: "127.0.0.1", ServerPort: "0"}, api.Dependencies{
		DB:       db,
		Sessions: session.NewManager(session.NewGormStore(db), trk, time.Hour),
		Tracker:  trk,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
