package services

import (
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
	"github.com/dmitrijs2005/nutrikeeper/internal/timex"
)

// DefaultCacheSize is the LRU capacity used when Options.CacheSize is 0.
const DefaultCacheSize = 256

// Options carries the collaborators shared by the services. Zero fields get
// defaults: the system clock, time.Local, a discarding logger.
type Options struct {
	CacheSize int
	Location  *time.Location
	Clock     timex.Clock
	Logger    logging.Logger
}

func (o Options) withDefaults() Options {
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Clock == nil {
		o.Clock = timex.SystemClock()
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}
