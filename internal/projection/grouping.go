// Package projection derives display views from the flat post list. Nothing
// here holds state; every call recomputes from the posts it is given.
package projection

import (
	"sort"
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
)

// All is the filter sentinel that lets every value through.
const All = "All"

type Filter struct {
	Search    string
	Status    string
	Client    string
	Campaign  string
	TrashView bool
}

type groupKey struct {
	client   string
	campaign string
	date     string
	caption  string
	mediaURL string
	status   models.Status
}

func keyOf(p *models.Post) groupKey {
	return groupKey{p.Client, p.Campaign, p.Date, p.Caption, p.MediaURL, p.Status}
}

func passes(selected, value string) bool {
	return selected == "" || selected == All || selected == value
}

// visible applies trash visibility, tenant pinning and the UI filters.
func visible(p *models.Post, f Filter, actor models.Actor) bool {
	if f.TrashView != (p.Status == models.StatusTrashed) {
		return false
	}

	client := f.Client
	if scope := actor.TenantScope(); scope != "" {
		client = scope
	}
	if !passes(client, p.Client) {
		return false
	}
	if !passes(f.Status, string(p.Status)) || !passes(f.Campaign, p.Campaign) {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Caption), q) && !strings.Contains(strings.ToLower(p.Client), q) {
			return false
		}
	}
	return true
}

// Group collapses per-platform rows sharing client, campaign, date, caption,
// media and status into one card, newest created first. A tenant-scoped actor
// only ever sees its own client, whatever f.Client says.
func Group(posts []*models.Post, f Filter, actor models.Actor) []models.GroupedPost {
	index := make(map[groupKey]int)
	var groups []models.GroupedPost

	for _, p := range posts {
		if !visible(p, f, actor) {
			continue
		}
		k := keyOf(p)
		i, ok := index[k]
		if !ok {
			index[k] = len(groups)
			groups = append(groups, models.GroupedPost{
				Client:    p.Client,
				Campaign:  p.Campaign,
				Date:      p.Date,
				Caption:   p.Caption,
				MediaURL:  p.MediaURL,
				MediaType: p.MediaType,
				Status:    p.Status,
				IDs:       []string{p.ID},
				Platforms: []models.Platform{p.Platform},
				CreatedAt: p.CreatedAt,
			})
			continue
		}
		g := &groups[i]
		g.IDs = append(g.IDs, p.ID)
		g.Platforms = append(g.Platforms, p.Platform)
		if p.CreatedAt > g.CreatedAt {
			g.CreatedAt = p.CreatedAt
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt > groups[j].CreatedAt
	})
	return groups
}

// Campaigns lists the distinct campaign labels visible to actor, for filter menus.
func Campaigns(posts []*models.Post, actor models.Actor) []string {
	seen := make(map[string]bool)
	var out []string
	scope := actor.TenantScope()
	for _, p := range posts {
		if p.Campaign == "" || seen[p.Campaign] || (scope != "" && p.Client != scope) {
			continue
		}
		seen[p.Campaign] = true
		out = append(out, p.Campaign)
	}
	sort.Strings(out)
	return out
}
