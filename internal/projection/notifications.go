package projection

import (
	"sort"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/policy"
)

const DefaultWindow = 48 * time.Hour

// Notifications lists recent comments on live posts written by someone other
// than actor, most recent first. Internal comments only reach internal roles.
func Notifications(posts []*models.Post, actor models.Actor, now time.Time, window time.Duration) []models.Notification {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window).UnixMilli()
	scope := actor.TenantScope()
	internal := policy.IsInternal(actor.Role)

	var out []models.Notification
	for _, p := range posts {
		if p.Status == models.StatusTrashed {
			continue
		}
		if scope != "" && p.Client != scope {
			continue
		}
		for _, c := range p.Comments {
			if c.Timestamp <= cutoff || c.Author == actor.Name {
				continue
			}
			if c.IsInternal && !internal {
				continue
			}
			out = append(out, models.Notification{
				PostID:   p.ID,
				Client:   p.Client,
				Platform: p.Platform,
				Caption:  p.Caption,
				Comment:  c,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Comment.Timestamp > out[j].Comment.Timestamp
	})
	return out
}
