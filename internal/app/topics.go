package app

import (
	"github.com/nfrund/accountdesk/internal/pubsub"
	"github.com/nfrund/accountdesk/internal/validation"
	"github.com/nfrund/accountdesk/internal/view"
)

// NewCatalog returns the catalog of every topic the client publishes on.
func NewCatalog() *pubsub.Catalog {
	c := pubsub.NewCatalog()
	c.MustRegister(validation.TopicFieldState)
	c.MustRegister(view.TopicScreenChanged)
	c.MustRegister(view.TopicNoticePosted)
	return c
}
