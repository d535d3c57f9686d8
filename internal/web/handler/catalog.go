package handler

import "github.com/valnor-game/valnor/internal/web/templates/pages"

// section describes one catalog-style page
type section struct {
	Heading string
	Items   []pages.SectionItem
	Action  string
}

// sections lists the catalog pages by route
var sections = map[string]section{
	"/shop": {
		Heading: "Shop",
		Action:  "/shop/buy",
		Items: []pages.SectionItem{
			{ID: "energy-potion", Name: "Energy Potion", Price: 150},
			{ID: "iron-sword", Name: "Iron Sword", Price: 400},
			{ID: "oak-shield", Name: "Oak Shield", Price: 350},
			{ID: "hero-scroll", Name: "Hero Scroll", Price: 900},
		},
	},
	"/inventory": {
		Heading: "Inventory",
		Items: []pages.SectionItem{
			{ID: "starter-blade", Name: "Starter Blade"},
			{ID: "traveler-cloak", Name: "Traveler's Cloak"},
		},
	},
	"/heroes": {
		Heading: "Heroes",
		Items: []pages.SectionItem{
			{ID: "aria", Name: "Aria the Swift"},
			{ID: "borin", Name: "Borin Stoneheart"},
			{ID: "cael", Name: "Cael of the Ash"},
			{ID: "dara", Name: "Dara Moonveil"},
			{ID: "eron", Name: "Eron Brightspear"},
		},
	},
	"/leaderboard": {
		Heading: "Leaderboard",
		Items: []pages.SectionItem{
			{ID: "rank-1", Name: "Kestrel"},
			{ID: "rank-2", Name: "Morrow"},
			{ID: "rank-3", Name: "Thistle"},
		},
	},
	"/dungeon": {
		Heading: "Dungeon",
		Items: []pages.SectionItem{
			{ID: "sunken-crypt", Name: "Sunken Crypt"},
			{ID: "ember-halls", Name: "Ember Halls"},
		},
	},
	"/pvp": {
		Heading: "PvP Arena",
		Items: []pages.SectionItem{
			{ID: "ranked", Name: "Ranked Match"},
			{ID: "friendly", Name: "Friendly Match"},
		},
	},
	"/guild": {
		Heading: "Guild",
		Items: []pages.SectionItem{
			{ID: "roster", Name: "Guild Roster"},
			{ID: "hall", Name: "Guild Hall"},
		},
	},
	"/marketplace": {
		Heading: "Marketplace",
		Action:  "/marketplace/buy",
		Items: []pages.SectionItem{
			{ID: "rune-of-haste", Name: "Rune of Haste", Price: 1200},
			{ID: "dragon-scale", Name: "Dragon Scale", Price: 2500},
		},
	},
}

// item finds an item by id in the section at route
func (s section) item(id string) (pages.SectionItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return pages.SectionItem{}, false
}
