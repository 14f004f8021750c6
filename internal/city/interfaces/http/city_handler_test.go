package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Civitas/internal/city/domain"
	"Civitas/internal/city/service"
	"Civitas/internal/shared/actor/messages"
	"Civitas/internal/shared/transport"
	transporthttp "Civitas/internal/shared/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	got     []messages.CityMessage
	data    any
	err     error
	turn    int
	players map[domain.PlayerID]domain.Strategy
	results []service.TurnResult
}

func (f *fakeRuntime) Ask(_ context.Context, msg messages.CityMessage) (any, error) {
	f.got = append(f.got, msg)
	return f.data, f.err
}

func (f *fakeRuntime) RunTurn(_ context.Context, turn int, s map[domain.PlayerID]domain.Strategy) ([]service.TurnResult, error) {
	f.turn, f.players = turn, s
	return f.results, f.err
}

func newTestServer(rt CityRuntime) nethttp.Handler {
	gin.SetMode(gin.TestMode)
	s := transporthttp.NewHttpServer(":0", gin.New(), nil)
	NewCityHandler(rt).RegisterRoutes(s.Group())
	return s.Handler()
}

func do(t *testing.T, h nethttp.Handler, method, path, body string) transport.Response {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	require.Equal(t, nethttp.StatusOK, w.Code)
	var resp transport.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCityHandler_查询城市(t *testing.T) {
	rt := &fakeRuntime{data: service.CityInfo{ID: 3, Population: 4}}
	h := newTestServer(rt)

	resp := do(t, h, nethttp.MethodGet, "/api/v1/cities/3", "")
	assert.Equal(t, transport.OK, resp.Code)
	require.Len(t, rt.got, 1)
	msg, ok := rt.got[0].(messages.GetCity)
	require.True(t, ok)
	assert.Equal(t, domain.CityID(3), msg.CityID())
	assert.NotEmpty(t, msg.TraceID())

	resp = do(t, h, nethttp.MethodGet, "/api/v1/cities/abc", "")
	assert.Equal(t, transport.InvalidParam, resp.Code)
}

func TestCityHandler_锁定地块默认为锁定(t *testing.T) {
	rt := &fakeRuntime{}
	h := newTestServer(rt)

	resp := do(t, h, nethttp.MethodPost, "/api/v1/cities/1/plots/force", `{"q":1,"r":0}`)
	assert.Equal(t, transport.OK, resp.Code)
	msg := rt.got[0].(messages.ForcePlot)
	assert.Equal(t, domain.TileCoord{Q: 1, R: 0}, msg.Location)
	assert.True(t, msg.Force)

	resp = do(t, h, nethttp.MethodPost, "/api/v1/cities/1/plots/force", `{"q":1}`)
	assert.Equal(t, transport.InvalidParam, resp.Code)
	assert.Len(t, rt.got, 1)
}

func TestCityHandler_侧重与建筑参数校验(t *testing.T) {
	rt := &fakeRuntime{}
	h := newTestServer(rt)

	resp := do(t, h, nethttp.MethodPost, "/api/v1/cities/1/focus", `{"focus":"banana"}`)
	assert.Equal(t, transport.InvalidParam, resp.Code)
	assert.Equal(t, string(service.CodeInvalidFocus), resp.Reason)

	resp = do(t, h, nethttp.MethodPost, "/api/v1/cities/1/focus", `{"focus":"science","avoid_growth":true}`)
	assert.Equal(t, transport.OK, resp.Code)
	focus := rt.got[0].(messages.SetFocus)
	assert.Equal(t, domain.FocusScience, focus.Policy.Focus)
	assert.True(t, focus.Policy.AvoidGrowth)

	resp = do(t, h, nethttp.MethodPost, "/api/v1/cities/1/specialists", `{"building":"castle","add":true}`)
	assert.Equal(t, transport.InvalidParam, resp.Code)

	resp = do(t, h, nethttp.MethodPost, "/api/v1/cities/1/specialists", `{"building":"library","add":false,"forced":true}`)
	assert.Equal(t, transport.OK, resp.Code)
	sp := rt.got[1].(messages.ChangeSpecialist)
	assert.Equal(t, domain.BuildingLibrary, sp.Building)
	assert.False(t, sp.Add)
	assert.True(t, sp.Forced)
}

func TestCityHandler_业务错误映射(t *testing.T) {
	rt := &fakeRuntime{err: service.ErrSpecialistSlotFull.WithData("building", "library")}
	h := newTestServer(rt)

	resp := do(t, h, nethttp.MethodPost, "/api/v1/cities/1/specialists", `{"building":"library","add":true}`)
	assert.Equal(t, transport.Rejected, resp.Code)
	assert.Equal(t, string(service.CodeSpecialistSlotFull), resp.Reason)

	rt.err = service.ErrCityNotFound
	resp = do(t, h, nethttp.MethodPost, "/api/v1/cities/8/population", `{"delta":1}`)
	assert.Equal(t, transport.NotFound, resp.Code)

	rt.err = errors.New("boom")
	resp = do(t, h, nethttp.MethodPost, "/api/v1/cities/8/buildings", `{"building":"market","has":true}`)
	assert.Equal(t, transport.SystemError, resp.Code)
}

func TestCityHandler_全部城市推进回合(t *testing.T) {
	rt := &fakeRuntime{results: []service.TurnResult{{CityID: 1, Turn: 5}}}
	h := newTestServer(rt)

	resp := do(t, h, nethttp.MethodPost, "/api/v1/turn", `{"turn":5,"strategies":{"2":{"production_deficient":true}}}`)
	assert.Equal(t, transport.OK, resp.Code)
	assert.Equal(t, 5, rt.turn)
	assert.True(t, rt.players[2].ProductionDeficient)
}
