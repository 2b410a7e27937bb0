package projection

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/maheshrc27/contentflow/internal/models"
)

var agency = models.Actor{ID: "a", Name: "Ada", Role: models.RoleAgencyAdmin}

func acmeActor() models.Actor {
	client := "Acme"
	return models.Actor{ID: "c", Name: "Alice", Role: models.RoleClientAdmin, ClientID: &client}
}

func post(id, client string, platform models.Platform, status models.Status, createdAt int64) *models.Post {
	return &models.Post{
		ID:        id,
		Client:    client,
		Platform:  platform,
		Campaign:  "Spring",
		Date:      "2026-03-10",
		Caption:   "Launch day",
		MediaURL:  "http://x/img.png",
		Status:    status,
		CreatedAt: createdAt,
	}
}

func fixture() []*models.Post {
	other := post("g1", "Globex", models.PlatformInstagram, models.StatusDraft, 50)
	other.Caption = "Globex teaser"
	edited := post("a3", "Acme", models.PlatformTwitter, models.StatusDraft, 30)
	edited.Caption = "Launch day (edited)"
	return []*models.Post{
		post("a1", "Acme", models.PlatformInstagram, models.StatusDraft, 10),
		post("a2", "Acme", models.PlatformLinkedIn, models.StatusDraft, 11),
		edited,
		post("a4", "Acme", models.PlatformFacebook, models.StatusApproved, 20),
		post("t1", "Acme", models.PlatformTikTok, models.StatusTrashed, 40),
		other,
	}
}

func membership(groups []models.GroupedPost) []string {
	var out []string
	for _, g := range groups {
		ids := append([]string(nil), g.IDs...)
		sort.Strings(ids)
		out = append(out, strings.Join(ids, ","))
	}
	sort.Strings(out)
	return out
}

func TestGroupCollapsesPlatforms(t *testing.T) {
	groups := Group(fixture(), Filter{}, agency)

	want := []string{"a1,a2", "a3", "a4", "g1"}
	if got := membership(groups); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("membership = %v, want %v", got, want)
	}
	for _, g := range groups {
		if len(g.IDs) != len(g.Platforms) {
			t.Errorf("ids and platforms out of step: %+v", g)
		}
		if g.IDs[0] == "a1" && (g.Platforms[0] != models.PlatformInstagram || g.Platforms[1] != models.PlatformLinkedIn) {
			t.Errorf("platforms = %v", g.Platforms)
		}
	}
	if groups[0].IDs[0] != "g1" {
		t.Errorf("first group = %v, want newest (g1)", groups[0].IDs)
	}
}

func TestGroupIsOrderInsensitive(t *testing.T) {
	base := membership(Group(fixture(), Filter{}, agency))
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		posts := fixture()
		r.Shuffle(len(posts), func(a, b int) { posts[a], posts[b] = posts[b], posts[a] })
		if got := membership(Group(posts, Filter{}, agency)); fmt.Sprint(got) != fmt.Sprint(base) {
			t.Fatalf("permutation %d membership = %v, want %v", i, got, base)
		}
	}
}

func TestGroupTrashExclusivity(t *testing.T) {
	for _, g := range Group(fixture(), Filter{}, agency) {
		if g.Status == models.StatusTrashed {
			t.Errorf("trashed group in default view: %v", g.IDs)
		}
	}
	trash := Group(fixture(), Filter{TrashView: true}, agency)
	if len(trash) != 1 || trash[0].IDs[0] != "t1" {
		t.Errorf("trash view = %v, want only t1", membership(trash))
	}
}

func TestGroupTenantIsolation(t *testing.T) {
	filters := []Filter{
		{},
		{Client: All},
		{Client: "Globex"},
		{Client: "Globex", TrashView: true},
		{Search: "globex"},
	}
	for _, f := range filters {
		for _, g := range Group(fixture(), f, acmeActor()) {
			if g.Client != "Acme" {
				t.Errorf("filter %+v leaked %s group %v", f, g.Client, g.IDs)
			}
		}
	}
}

func TestGroupFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all sentinels", Filter{Status: All, Client: All, Campaign: All}, []string{"a1,a2", "a3", "a4", "g1"}},
		{"status", Filter{Status: "Approved"}, []string{"a4"}},
		{"client", Filter{Client: "Globex"}, []string{"g1"}},
		{"campaign miss", Filter{Campaign: "Autumn"}, nil},
		{"search caption case-insensitive", Filter{Search: "EDITED"}, []string{"a3"}},
		{"search client name", Filter{Search: "glob"}, []string{"g1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := membership(Group(fixture(), tt.filter, agency))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Group() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCampaigns(t *testing.T) {
	posts := fixture()
	posts[5].Campaign = "Globex Q1"
	if got := Campaigns(posts, acmeActor()); fmt.Sprint(got) != "[Spring]" {
		t.Errorf("Campaigns(acme) = %v", got)
	}
	if got := Campaigns(posts, agency); len(got) != 2 {
		t.Errorf("Campaigns(agency) = %v", got)
	}
}
