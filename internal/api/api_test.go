package api_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/valnor-game/valnor/internal/api"
	"github.com/valnor-game/valnor/internal/api/apierr"
	"github.com/valnor-game/valnor/internal/api/response"
	"github.com/valnor-game/valnor/internal/factory"
	"github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app     *factory.TestApp
	handler http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.buildRouter()
}

func (s *APISuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *APISuite) buildRouter() {
	s.handler = api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		Clock:         s.app.Clock,
		AuthService:   s.app.AuthService,
		PlayerManager: s.app.PlayerManager,
		Guard:         s.app.Guard,
		HubManager:    s.app.HubManager,
	})
}

func (s *APISuite) request(method, path string, body any, clientID, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set(middleware.ClientIDHeader, clientID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *APISuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (s *APISuite) errorCode(rr *httptest.ResponseRecorder) apierr.APIError {
	var resp apierr.ErrorResponse
	s.decode(rr, &resp)
	return resp.Error
}

func (s *APISuite) startGuest(clientID string) {
	rr := s.request(http.MethodPost, "/api/v1/session/guest", nil, clientID, "")
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
}

func (s *APISuite) register(clientID string) response.AuthResponse {
	body := map[string]string{"username": "alice", "password": "password123", "display_name": "Alice"}
	rr := s.request(http.MethodPost, "/api/v1/session/register", body, clientID, "")
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var resp response.AuthResponse
	s.decode(rr, &resp)
	return resp
}

func (s *APISuite) resources(clientID, token string) response.Resources {
	rr := s.request(http.MethodGet, "/api/v1/resources", nil, clientID, token)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var resp response.Resources
	s.decode(rr, &resp)
	return resp
}

// Health and client identification

func (s *APISuite) TestHealthCheck() {
	rr := s.request(http.MethodGet, "/api/v1/health", nil, "", "")
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "ok")
}

func (s *APISuite) TestClientIDMintedWhenAbsent() {
	rr := s.request(http.MethodGet, "/api/v1/session", nil, "", "")
	s.Equal(http.StatusOK, rr.Code)
	s.NotEmpty(rr.Header().Get(middleware.ClientIDHeader))
}

// Session

func (s *APISuite) TestSessionStartsEmpty() {
	rr := s.request(http.MethodGet, "/api/v1/session", nil, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("none", resp.Mode)
	s.Nil(resp.GuestProfile)
	s.True(resp.IsFirstTime)
}

func (s *APISuite) TestStartGuestGeneratesProfile() {
	rr := s.request(http.MethodPost, "/api/v1/session/guest", nil, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("guest", resp.Mode)
	s.Require().NotNil(resp.GuestProfile)
	s.Equal("BraveWolf1", resp.GuestProfile.Name)
	s.False(resp.IsFirstTime)
	s.True(resp.IsInitialized)
}

func (s *APISuite) TestStartGuestKeepsChosenName() {
	rr := s.request(http.MethodPost, "/api/v1/session/guest", map[string]string{"name": "Scout"}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("Scout", resp.GuestProfile.Name)
}

func (s *APISuite) TestRegisterStartsAuthSession() {
	resp := s.register("client-1")

	s.NotEmpty(resp.SessionToken)
	s.Equal("auth", resp.Session.Mode)
	s.Nil(resp.Session.GuestProfile)
	s.Require().NotNil(resp.Session.Identity)
	s.Equal("alice", resp.Session.Identity.Username)
}

func (s *APISuite) TestRegisterRejectsDuplicateUsername() {
	s.register("client-1")

	body := map[string]string{"username": "alice", "password": "password123"}
	rr := s.request(http.MethodPost, "/api/v1/session/register", body, "client-2", "")
	s.Equal(http.StatusConflict, rr.Code)
	s.Equal(apierr.CodeUsernameExists, s.errorCode(rr).Code)
}

func (s *APISuite) TestFailedLoginLeavesModeUntouched() {
	s.register("client-1")
	s.startGuest("client-2")

	body := map[string]string{"username": "alice", "password": "wrong-password"}
	rr := s.request(http.MethodPost, "/api/v1/session/login", body, "client-2", "")
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal(apierr.CodeInvalidCredentials, s.errorCode(rr).Code)

	rr = s.request(http.MethodGet, "/api/v1/session", nil, "client-2", "")
	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("guest", resp.Mode)
}

func (s *APISuite) TestLoginFromGuestResetsProgress() {
	s.register("client-1")
	s.startGuest("client-2")
	rr := s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 40}, "client-2", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	body := map[string]string{"username": "alice", "password": "password123"}
	rr = s.request(http.MethodPost, "/api/v1/session/login", body, "client-2", "")
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var auth response.AuthResponse
	s.decode(rr, &auth)
	s.Equal("auth", auth.Session.Mode)
	s.Equal(100, s.resources("client-2", auth.SessionToken).Energy)
}

func (s *APISuite) TestLogoutResetsDependentState() {
	auth := s.register("client-1")
	token := auth.SessionToken

	rr := s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 25}, "client-1", token)
	s.Require().Equal(http.StatusOK, rr.Code)
	rr = s.request(http.MethodPut, "/api/v1/team/0", map[string]string{"hero_id": "hero-knight"}, "client-1", token)
	s.Require().Equal(http.StatusOK, rr.Code)
	rr = s.request(http.MethodPut, "/api/v1/preferences/game-mode", map[string]string{"game_mode": "arena"}, "client-1", token)
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodPost, "/api/v1/session/logout", nil, "client-1", token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var logout response.LogoutResponse
	s.decode(rr, &logout)
	s.True(logout.Ended)
	s.Equal("none", logout.Session.Mode)

	// The token is revoked and a new guest session starts from defaults
	rr = s.request(http.MethodGet, "/api/v1/resources", nil, "client-1", token)
	s.Equal(http.StatusForbidden, rr.Code)

	s.startGuest("client-1")
	s.Equal(100, s.resources("client-1", "").Energy)

	rr = s.request(http.MethodGet, "/api/v1/team", nil, "client-1", "")
	var team response.Team
	s.decode(rr, &team)
	s.Empty(team.Members)

	rr = s.request(http.MethodGet, "/api/v1/preferences/game-mode", nil, "client-1", "")
	var mode response.GameMode
	s.decode(rr, &mode)
	s.Empty(mode.GameMode)
}

func (s *APISuite) TestLogoutWithoutSessionIsNoop() {
	rr := s.request(http.MethodPost, "/api/v1/session/logout", nil, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp response.LogoutResponse
	s.decode(rr, &resp)
	s.False(resp.Ended)
	s.Equal("none", resp.Session.Mode)
}

func (s *APISuite) TestLostTokenEndsAuthSession() {
	auth := s.register("client-1")

	// Tokens live in memory; after a restart only the persisted mode remains
	s.app.Restart()
	s.buildRouter()

	rr := s.request(http.MethodGet, "/api/v1/session", nil, "client-1", auth.SessionToken)
	s.Require().Equal(http.StatusOK, rr.Code)
	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("none", resp.Mode)
	s.Nil(resp.Identity)
}

func (s *APISuite) TestTokenFromAnotherClientIsIgnored() {
	auth := s.register("client-1")

	rr := s.request(http.MethodGet, "/api/v1/session", nil, "client-2", auth.SessionToken)
	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("none", resp.Mode)
	s.Nil(resp.Identity)
}

// Access

func (s *APISuite) access(clientID, path string) response.Access {
	rr := s.request(http.MethodGet, "/api/v1/access?path="+path, nil, clientID, "")
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var resp response.Access
	s.decode(rr, &resp)
	return resp
}

func (s *APISuite) TestAccessRequiresPath() {
	rr := s.request(http.MethodGet, "/api/v1/access", nil, "client-1", "")
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *APISuite) TestAccessRedirectsNoSessionToLogin() {
	resp := s.access("client-1", "/dashboard")

	s.False(resp.Allow)
	s.Equal("/login?from=%2Fdashboard", resp.Target)
	s.NotEmpty(resp.Reason)
}

func (s *APISuite) TestAccessGuestMatrix() {
	s.startGuest("client-1")

	battle := s.access("client-1", "/battle")
	s.True(battle.Allow)
	s.True(battle.CanWrite)

	shop := s.access("client-1", "/shop")
	s.True(shop.Allow)
	s.Equal("view-only", shop.Access)
	s.False(shop.CanWrite)

	dungeon := s.access("client-1", "/dungeon")
	s.False(dungeon.Allow)
	s.Equal("/dashboard", dungeon.Target)
	s.Equal("you need an account to access this section", dungeon.Reason)
}

// Resources

func (s *APISuite) TestResourcesRequireSession() {
	rr := s.request(http.MethodGet, "/api/v1/resources", nil, "client-1", "")
	s.Equal(http.StatusForbidden, rr.Code)
	s.Equal(apierr.CodeSessionRequired, s.errorCode(rr).Code)
}

func (s *APISuite) TestResourcesStartFull() {
	s.startGuest("client-1")

	resp := s.resources("client-1", "")
	s.Equal(100, resp.Energy)
	s.Equal(100, resp.MaxEnergy)
	s.Empty(resp.TimeToNextUnit)
	s.InDelta(100.0, resp.Progress, 0.001)
	s.Equal(1000, resp.Gold)
	s.Equal(50, resp.Gems)
	s.Equal(1, resp.Level)
}

func (s *APISuite) TestConsumeAndRegenerate() {
	s.startGuest("client-1")

	rr := s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 30}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)
	var after response.Resources
	s.decode(rr, &after)
	s.Equal(70, after.Energy)
	s.Equal("5:00", after.TimeToNextUnit)

	s.app.MockClock.Advance(17 * time.Minute)

	resp := s.resources("client-1", "")
	s.Equal(73, resp.Energy)
	s.Equal("3:00", resp.TimeToNextUnit)
	s.InDelta(40.0, resp.Progress, 0.001)
}

func (s *APISuite) TestConsumeInsufficientReportsShortfall() {
	s.startGuest("client-1")
	rr := s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 90}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 20}, "client-1", "")
	s.Equal(http.StatusConflict, rr.Code)
	apiErr := s.errorCode(rr)
	s.Equal(apierr.CodeInsufficientEnergy, apiErr.Code)
	s.Equal(10, apiErr.Shortfall)

	s.Equal(10, s.resources("client-1", "").Energy)
}

func (s *APISuite) TestConsumeRejectsNonPositiveAmount() {
	s.startGuest("client-1")

	rr := s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 0}, "client-1", "")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeInvalidAmount, s.errorCode(rr).Code)
}

func (s *APISuite) TestAddEnergyClampsToMax() {
	s.startGuest("client-1")
	s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 10}, "client-1", "")

	rr := s.request(http.MethodPost, "/api/v1/resources/energy/add", map[string]int{"amount": 50}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)
	var resp response.Resources
	s.decode(rr, &resp)
	s.Equal(100, resp.Energy)
}

func (s *APISuite) TestAddEnergyWithHugeAmountFillsBar() {
	s.startGuest("client-1")
	s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 90}, "client-1", "")

	rr := s.request(http.MethodPost, "/api/v1/resources/energy/add", map[string]int{"amount": math.MaxInt}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)
	var resp response.Resources
	s.decode(rr, &resp)
	s.Equal(100, resp.Energy)
}

func (s *APISuite) TestGuestCannotSpendGold() {
	s.startGuest("client-1")

	rr := s.request(http.MethodPost, "/api/v1/resources/gold/spend", map[string]int{"amount": 10}, "client-1", "")
	s.Equal(http.StatusForbidden, rr.Code)
	s.Equal(apierr.CodeViewOnly, s.errorCode(rr).Code)
}

func (s *APISuite) TestAccountSpendsGold() {
	token := s.register("client-1").SessionToken

	rr := s.request(http.MethodPost, "/api/v1/resources/gold/spend", map[string]int{"amount": 250}, "client-1", token)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var resp response.Resources
	s.decode(rr, &resp)
	s.Equal(750, resp.Gold)

	rr = s.request(http.MethodPost, "/api/v1/resources/gold/spend", map[string]int{"amount": 800}, "client-1", token)
	s.Equal(http.StatusConflict, rr.Code)
	apiErr := s.errorCode(rr)
	s.Equal(apierr.CodeInsufficientGold, apiErr.Code)
	s.Equal(50, apiErr.Shortfall)
}

// Team

func (s *APISuite) TestTeamAssignAndRemove() {
	s.startGuest("client-1")

	rr := s.request(http.MethodPut, "/api/v1/team/2", map[string]string{"hero_id": "hero-mage"}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var team response.Team
	s.decode(rr, &team)
	s.Require().Len(team.Members, 1)
	s.Equal(2, team.Members[0].Slot)
	s.Equal("hero-mage", team.Members[0].HeroID)

	rr = s.request(http.MethodDelete, "/api/v1/team/2", nil, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &team)
	s.Empty(team.Members)
}

func (s *APISuite) TestTeamRejectsInvalidSlot() {
	s.startGuest("client-1")

	rr := s.request(http.MethodPut, "/api/v1/team/9", map[string]string{"hero_id": "hero-mage"}, "client-1", "")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeInvalidSlot, s.errorCode(rr).Code)

	rr = s.request(http.MethodPut, "/api/v1/team/abc", map[string]string{"hero_id": "hero-mage"}, "client-1", "")
	s.Equal(http.StatusBadRequest, rr.Code)
}

// Preferences

func (s *APISuite) TestGameModePreference() {
	s.startGuest("client-1")

	rr := s.request(http.MethodPut, "/api/v1/preferences/game-mode", map[string]string{"game_mode": "skirmish"}, "client-1", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/preferences/game-mode", nil, "client-1", "")
	var resp response.GameMode
	s.decode(rr, &resp)
	s.Equal("skirmish", resp.GameMode)

	rr = s.request(http.MethodPut, "/api/v1/preferences/game-mode", map[string]string{"game_mode": "speedrun"}, "client-1", "")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeInvalidGameMode, s.errorCode(rr).Code)
}

// State survives restarts through storage

func (s *APISuite) TestGuestStateSurvivesRestart() {
	s.startGuest("client-1")
	s.request(http.MethodPost, "/api/v1/resources/energy/consume", map[string]int{"amount": 5}, "client-1", "")

	s.app.Restart()
	s.buildRouter()

	rr := s.request(http.MethodGet, "/api/v1/session", nil, "client-1", "")
	var resp response.Session
	s.decode(rr, &resp)
	s.Equal("guest", resp.Mode)
	s.Equal("BraveWolf1", resp.GuestProfile.Name)
	s.Equal(95, s.resources("client-1", "").Energy)
}
