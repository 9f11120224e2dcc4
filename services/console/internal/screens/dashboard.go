package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/listview"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

const (
	DashboardPageSize = 5
	recentWindow      = 7 * 24 * time.Hour
)

type Stats struct {
	Total  int
	Recent int
}

// Dashboard shows the signed-in admin and the visitor feedback inbox.
type Dashboard struct {
	base

	admin    model.Admin
	list     *listview.List[model.Feedback]
	stats    Stats
	selected *model.Feedback
}

func NewDashboard(parent context.Context, deps Deps) *Dashboard {
	d := &Dashboard{
		list: listview.New(DashboardPageSize,
			func(f model.Feedback) []string { return []string{f.Name, f.Email, f.Message} },
			func(f model.Feedback) int64 { return f.ID }),
	}
	d.init(parent, "dashboard", deps, notify.DefaultTTL)
	d.reload = d.Load
	return d
}

func (d *Dashboard) Load() error {
	if d.deps.Session == nil {
		d.setRedirect(PathLogin)
		return nil
	}
	admin, err := d.deps.Session.Admin()
	if err != nil {
		d.setRedirect(PathLogin)
		return nil
	}

	ctx, err := d.beginLoad()
	if err != nil {
		return err
	}
	items, err := d.deps.Feedback.List(ctx)
	if err != nil {
		return d.loadFailed("Failed to load feedbacks. Please try again.", err)
	}

	loadedAt := d.deps.Now()
	for i := range items {
		if items[i].CreatedAt == nil {
			t := loadedAt
			items[i].CreatedAt = &t
		}
		if items[i].UpdatedAt == nil {
			t := loadedAt
			items[i].UpdatedAt = &t
		}
	}

	return d.settle(func() {
		d.admin = admin
		d.list.SetItems(items)
		d.stats = computeStats(items, loadedAt)
	})
}

func computeStats(items []model.Feedback, now time.Time) Stats {
	cutoff := now.Add(-recentWindow)
	s := Stats{Total: len(items)}
	for _, f := range items {
		if f.CreatedAt != nil && f.CreatedAt.After(cutoff) {
			s.Recent++
		}
	}
	return s
}

func (d *Dashboard) Admin() model.Admin {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.admin
}

func (d *Dashboard) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}

func (d *Dashboard) Search(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list.SetQuery(q)
}

func (d *Dashboard) NextPage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list.Next()
}

func (d *Dashboard) PrevPage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list.Prev()
}

func (d *Dashboard) GoToPage(p int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list.GoTo(p)
}

// Page returns the current page, the page count and the page links.
func (d *Dashboard) Page() (page, total int, links []int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.list.Page(), d.list.TotalPages(), d.list.PageNumbers()
}

// Visible is the current page of feedback; nothing while loading.
func (d *Dashboard) Visible() []model.Feedback {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != Loaded {
		return nil
	}
	return d.list.Visible()
}

// Filtered is every feedback matching the search.
func (d *Dashboard) Filtered() []model.Feedback {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != Loaded {
		return nil
	}
	return d.list.Filtered()
}

func (d *Dashboard) OpenDetail(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.list.Find(id)
	if !ok {
		return false
	}
	d.selected = &f
	return true
}

func (d *Dashboard) Selected() (model.Feedback, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.selected == nil {
		return model.Feedback{}, false
	}
	return *d.selected, true
}

func (d *Dashboard) CloseDetail() {
	d.mu.Lock()
	d.selected = nil
	d.mu.Unlock()
}

func (d *Dashboard) Delete(id int64) error {
	if id <= 0 {
		return d.rejected(&model.ValidationError{Message: "Invalid feedback ID"})
	}
	err := d.mutate(mutation{
		resource: "feedback",
		action:   activity.Deleted,
		success:  "Feedback deleted successfully!",
		failure:  "Failed to delete feedback. Please try again.",
		run: func(ctx context.Context) (int64, error) {
			return id, d.deps.Feedback.Delete(ctx, id)
		},
	})
	if err == nil {
		d.CloseDetail()
	}
	return err
}

// TimeAgo renders t relative to now: minutes under an hour, hours under a
// day, days under a week, then the calendar date.
func TimeAgo(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "Unknown"
	}
	diff := now.Sub(*t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))
	switch {
	case mins < 60:
		return plural(mins, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 7:
		return plural(days, "day")
	default:
		return t.Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// Initials takes the first letter of the first two words, upper-cased.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		out = append(out, []rune(word)[0])
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
