package web_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardShowsResources(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	doc := ts.page("/dashboard")

	assertContainsText(t, doc, ".energy", "100/100")
	assertContainsText(t, doc, ".gold", "1000")
	assertContainsText(t, doc, ".game-mode", "not selected")
	assertNotContainsElement(t, doc, ".energy-timer")
	assertNotContainsElement(t, doc, ".view-only-banner")
}

func TestBattleSpendsEnergy(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	rr := ts.post("/battle", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/battle", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Victory")
	assertContainsText(t, doc, ".energy", "90/100")
	assertContainsText(t, doc, ".gold", "1025")
	assertContainsText(t, doc, ".energy-timer", "5:00")
}

func TestEnergyRegeneratesBetweenVisits(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")
	for range 3 {
		ts.post("/battle", nil)
	}

	ts.app.MockClock.Advance(17 * time.Minute)

	doc := ts.page("/battle")
	assertContainsText(t, doc, ".energy", "73/100")
	assertContainsText(t, doc, ".energy-timer", "3:00")
	assert.Equal(t, "40", doc.Find(".energy-progress").AttrOr("value", ""))
}

func TestBattleWithoutEnoughEnergy(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")
	for range 10 {
		ts.post("/battle", nil)
	}

	doc := ts.page("/battle")
	assertContainsText(t, doc, ".energy", "0/100")
	assertContainsElement(t, doc, ".battle-form button[disabled]")
	assertContainsText(t, doc, ".shortfall", "10 more energy")

	rr := ts.post("/battle", nil)
	rr = ts.followRedirect(rr)
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-warning", "10 more needed")
	assertContainsText(t, doc, ".energy", "0/100")
	assertContainsText(t, doc, ".gold", "1250")
}

func TestTeamAssignAndRemove(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	rr := ts.post("/team", url.Values{"slot": {"2"}, "hero_id": {"aria"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	doc := ts.page("/team")
	assert.Equal(t, 5, doc.Find(".team-slot").Length())
	assertContainsText(t, doc, ".team-slot[data-slot='2'] .hero", "aria")
	assertContainsText(t, doc, ".flash-success", "aria joined slot 2")

	ts.post("/team/remove", url.Values{"slot": {"2"}})

	doc = ts.page("/team")
	assertNotContainsElement(t, doc, ".team-slot .hero")
}

func TestTeamRejectsInvalidSlot(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	rr := ts.post("/team", url.Values{"slot": {"9"}, "hero_id": {"aria"}})
	rr = ts.followRedirect(rr)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "slot between 0 and 4")
	assertNotContainsElement(t, doc, ".team-slot .hero")
}

func TestSettingsSaveGameMode(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	rr := ts.post("/settings", url.Values{"game_mode": {"arena"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	doc := ts.page("/settings")
	assert.Equal(t, "arena", doc.Find("input[name='game_mode'][checked]").AttrOr("value", ""))

	doc = ts.page("/dashboard")
	assertContainsText(t, doc, ".game-mode", "Arena")
}

func TestSettingsRejectsUnknownGameMode(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	rr := ts.post("/settings", url.Values{"game_mode": {"raid"}})
	rr = ts.followRedirect(rr)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "Choose a game mode")
	assertNotContainsElement(t, doc, "input[name='game_mode'][checked]")
}

func TestGuestViewOnlySection(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	doc := ts.page("/shop")

	assertContainsElement(t, doc, ".view-only-banner")
	assert.Equal(t, 4, doc.Find(".item").Length())
	assertContainsElement(t, doc, ".item button[disabled]")
}

func TestGuestCannotBuy(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	rr := ts.post("/shop/buy", url.Values{"item": {"iron-sword"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/shop", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-warning", "Create an account")
	assertContainsText(t, doc, ".gold", "1000")
}

func TestGuestBlockedSectionsRedirect(t *testing.T) {
	for _, path := range []string{"/dungeon", "/pvp", "/guild", "/marketplace"} {
		t.Run(path, func(t *testing.T) {
			ts := newWebTestServer(t)
			ts.startGuest("Alice")
			ts.get("/dashboard") // consume the welcome flash

			rr := ts.get(path)
			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

			rr = ts.followRedirect(rr)
			doc := parseHTML(rr.Body)
			assertContainsText(t, doc, ".flash-warning", "account")
		})
	}
}

func TestAccountUsesEverySection(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("alice", "secret123", "Alice")

	for _, path := range []string{"/shop", "/inventory", "/heroes", "/leaderboard", "/dungeon", "/pvp", "/guild", "/marketplace"} {
		doc := ts.page(path)
		assertNotContainsElement(t, doc, ".view-only-banner")
	}
}

func TestAccountBuysItem(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("alice", "secret123", "Alice")

	rr := ts.post("/shop/buy", url.Values{"item": {"iron-sword"}})
	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Bought Iron Sword")
	assertContainsText(t, doc, ".gold", "600")

	rr = ts.post("/marketplace/buy", url.Values{"item": {"dragon-scale"}})
	rr = ts.followRedirect(rr)
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-warning", "1900 more needed")
	assertContainsText(t, doc, ".gold", "600")
}

func TestBuyUnknownItem(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("alice", "secret123", "Alice")

	rr := ts.post("/shop/buy", url.Values{"item": {"excalibur"}})
	rr = ts.followRedirect(rr)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "Unknown item")
}

func TestNotFoundPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no-such-page")

	require.Equal(t, http.StatusNotFound, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "main", "does not exist")
}

func TestUnknownPathIsNotFoundForGuests(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startGuest("Alice")

	// The guard never sees unrouted paths, even ones under a blocked section
	for _, path := range []string{"/no-such-page", "/pvp/arena"} {
		rr := ts.get(path)
		require.Equal(t, http.StatusNotFound, rr.Code, path)
		doc := parseHTML(rr.Body)
		assertContainsText(t, doc, ".player-name", "Alice")
	}
}
