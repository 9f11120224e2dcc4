package screens

import (
	"context"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/listview"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

// Credentials lists doctor logins and resets or removes them.
type Credentials struct {
	base

	list *listview.List[model.DoctorCredential]
}

func NewCredentials(parent context.Context, deps Deps) *Credentials {
	c := &Credentials{
		list: listview.New(0,
			func(c model.DoctorCredential) []string { return []string{c.Username, c.DoctorName} },
			func(c model.DoctorCredential) int64 { return c.ID }),
	}
	c.init(parent, "credentials", deps, notify.DoctorTTL)
	c.reload = c.Load
	return c
}

func (c *Credentials) Load() error {
	ctx, err := c.beginLoad()
	if err != nil {
		return err
	}
	creds, err := c.deps.Credentials.List(ctx)
	if err != nil {
		return c.loadFailed("Failed to load credentials", err)
	}
	return c.settle(func() { c.list.SetItems(creds) })
}

func (c *Credentials) Search(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list.SetQuery(q)
}

func (c *Credentials) Visible() []model.DoctorCredential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != Loaded {
		return nil
	}
	return c.list.Visible()
}

// Reset changes the username, the password, or both.
func (c *Credentials) Reset(id int64, req model.UpdateCredentialRequest) error {
	if err := req.Validate(); err != nil {
		return c.rejected(err)
	}
	return c.mutate(mutation{
		resource: "credentials",
		action:   activity.Updated,
		success:  "Credentials updated successfully!",
		failure:  "Failed to update credentials",
		run: func(ctx context.Context) (int64, error) {
			_, err := c.deps.Credentials.Update(ctx, id, req)
			return id, err
		},
	})
}

func (c *Credentials) Delete(id int64) error {
	return c.mutate(mutation{
		resource: "credentials",
		action:   activity.Deleted,
		success:  "Credentials deleted successfully!",
		failure:  "Failed to delete credentials",
		run: func(ctx context.Context) (int64, error) {
			return id, c.deps.Credentials.Delete(ctx, id)
		},
	})
}
