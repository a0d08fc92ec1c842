package palette

import (
	"context"
	"fmt"
	"time"

	"github.com/Paintersrp/quickswitch/internal/daily"
)

// Creation is a confirmed daily-note creation. Run does the I/O and may be
// called off the event loop; its result must be handed back to
// FinishCreation.
type Creation struct {
	Note daily.Note

	template string
	at       time.Time
	index    FileIndex
}

// Pending returns the daily note awaiting confirmation.
func (c *Controller) Pending() (daily.Note, bool) {
	if c.pending == nil {
		return daily.Note{}, false
	}
	return *c.pending, true
}

// Creating reports whether a creation is in flight.
func (c *Controller) Creating() bool {
	return c.creating
}

// BeginCreation confirms the pending daily note. Only one creation can be in
// flight per controller.
func (c *Controller) BeginCreation() (*Creation, error) {
	if c.creating {
		return nil, ErrCreationInFlight
	}
	if !c.open {
		return nil, ErrClosed
	}
	if c.pending == nil {
		return nil, ErrStale
	}

	c.creating = true
	return &Creation{
		Note:     *c.pending,
		template: c.settings.DailyTemplate,
		at:       c.now(),
		index:    c.index,
	}, nil
}

// Run renders the note content and creates the file.
func (cr *Creation) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := daily.Content(cr.Note, cr.template, cr.at, cr.index.ReadFile)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cr.index.CreateFile(cr.Note.Path, content); err != nil {
		return fmt.Errorf("create %s: %w", cr.Note.Path, err)
	}
	return nil
}

// FinishCreation applies the result of Run. On failure the palette keeps its
// state and reports the cause; on success the new note is opened and the
// palette closes.
func (c *Controller) FinishCreation(cr *Creation, err error) Outcome {
	if cr == nil || !c.creating {
		panic("palette: FinishCreation without a matching BeginCreation")
	}
	c.creating = false

	if err != nil {
		return notice("Failed to create %s: %v", cr.Note.Path, err)
	}

	c.pending = nil
	for i := range c.dailyItems {
		if c.dailyItems[i].Path == cr.Note.Path {
			c.dailyItems[i].daily.Exists = true
		}
	}
	c.files = append(c.files, File{Path: cr.Note.Path, Name: cr.Note.Title})

	if !c.open {
		return Outcome{}
	}
	return c.openFile(cr.Note.Path)
}

// CancelCreation drops the pending confirmation. It does nothing while a
// creation is already running.
func (c *Controller) CancelCreation() {
	if c.creating {
		return
	}
	c.pending = nil
}
