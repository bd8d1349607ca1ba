package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-wit/framework/app"
	"github.com/km-arc/go-wit/framework/config"
	"github.com/km-arc/go-wit/framework/container"
)

func bootDemo(t *testing.T) (*app.Application, http.Handler) {
	t.Helper()
	t.Setenv("DB_DATABASE", "demo")

	log, _ := test.NewNullLogger()
	a := app.NewWithConfig(&config.Config{
		App:       config.AppConfig{Name: "Demo", Env: "testing"},
		Container: config.ContainerConfig{Capacity: 16, Monitor: true},
	}, log)
	require.NoError(t, a.Register(&AppServiceProvider{}))
	require.NoError(t, a.Boot())

	r, err := a.Router()
	require.NoError(t, err)
	return a, r
}

func TestDemo_BootConnectsDatabase(t *testing.T) {
	a, _ := bootDemo(t)

	db, err := container.Get[Database](a.Container)
	require.NoError(t, err)
	assert.True(t, db.connected)
	assert.Equal(t, "demo", db.name)

	users, err := container.Get[UserService](a.Container)
	require.NoError(t, err)
	assert.Same(t, users, users.notifier.users)
}

func TestDemo_Routes(t *testing.T) {
	_, r := bootDemo(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var greeting struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&greeting))
	assert.Equal(t, "Welcome to Demo!", greeting.Data["message"])

	for _, id := range []string{"1", "2"} {
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var user struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&user))
		assert.Equal(t, map[string]string{"id": id, "db": "demo"}, user.Data)
	}
}
