package aggregator

import (
	"golang.org/x/sync/errgroup"

	"github.com/hillcountry/sentinel/internal/feed"
)

// Loader reads the entries of one feed.
type Loader interface {
	Load(cfg feed.Config) ([]feed.Entry, error)
}

// Load reads every feed in cfgs concurrently and collects them in the
// order given. The first read error is returned.
func Load(loader Loader, cfgs []feed.Config) (*Aggregator, error) {
	results := make([][]feed.Entry, len(cfgs))

	var g errgroup.Group
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			entries, err := loader.Load(cfg)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := New()
	for i, cfg := range cfgs {
		agg.AddEntries(cfg.Name, results[i])
	}
	return agg, nil
}
