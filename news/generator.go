// Package news produces discrete sentiment shocks for simulated
// instruments. A story targets a single company, every instrument in a
// sector, or the whole market, and adds its impact to each affected
// instrument's sentiment. The price process owns the decay.
package news

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/stocksim/internal/id"
	"github.com/rustyeddy/stocksim/internal/sched"
	"github.com/rustyeddy/stocksim/market"
)

// DefaultHistoryCap bounds the retained story feed.
const DefaultHistoryCap = 30

// GenericSectorLabel is used for sector stories when the pool carries no
// sector metadata.
const GenericSectorLabel = "Industry"

// Story is one published news record.
type Story struct {
	ID        string    `json:"id"`
	Headline  string    `json:"headline"`
	Category  Category  `json:"category"`
	Impact    float64   `json:"impact"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

// Generator rolls stories and applies their sentiment to instruments. The
// timer is a sched.Scheduler, so Start is an idempotent re-arm and Stop
// always releases the loop. GenerateStory itself is synchronous and not
// goroutine-safe; the owner serializes calls (the engine runs it under its
// lock via the fire callback).
type Generator struct {
	rng     *rand.Rand
	clock   sched.Clock
	log     *logrus.Entry
	timer   *sched.Scheduler
	stories []Story // newest first
	cap     int
}

// Options configures a Generator. Fire runs on every timer tick and is
// expected to call GenerateStory with the current pool under whatever
// locking the owner requires.
type Options struct {
	Rng        *rand.Rand
	Clock      sched.Clock
	Logger     *logrus.Logger
	HistoryCap int
	Fire       func()
}

func NewGenerator(opts Options) *Generator {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = sched.RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.HistoryCap < 1 {
		opts.HistoryCap = DefaultHistoryCap
	}

	g := &Generator{
		rng:   opts.Rng,
		clock: opts.Clock,
		log:   opts.Logger.WithField("component", "news"),
		cap:   opts.HistoryCap,
	}
	fire := opts.Fire
	if fire == nil {
		fire = func() {}
	}
	g.timer = sched.New(opts.Clock, fire)
	return g
}

// Start arms the story timer: one burst immediately, then one per interval.
// Calling Start while running re-arms without duplicating timers.
func (g *Generator) Start(interval time.Duration) {
	g.log.WithField("interval", interval).Info("news generator started")
	g.timer.Start(interval)
}

// Stop cancels the timer. Safe to call repeatedly.
func (g *Generator) Stop() {
	g.timer.Stop()
	g.log.Info("news generator stopped")
}

// Running reports whether the timer is armed.
func (g *Generator) Running() bool { return g.timer.Running() }

// GenerateStory rolls one story against the pool, adds the impact to each
// affected instrument's sentiment, and records the story newest-first. An
// empty pool produces no story. Malformed pool entries are skipped rather
// than aborting the tick.
func (g *Generator) GenerateStory(pool []*market.Instrument) (Story, bool) {
	pool = compact(pool)
	if len(pool) == 0 {
		g.log.Debug("no instruments tracked; skipping story")
		return Story{}, false
	}

	var story Story
	roll := g.rng.Float64()
	switch {
	case roll < companyOdds:
		story = g.companyStory(pool)
	case roll < companyOdds+sectorOdds:
		story = g.sectorStory(pool)
	default:
		story = g.marketStory(pool)
	}

	story.ID = id.New()
	story.Timestamp = g.clock.Now()
	g.push(story)

	g.log.WithFields(logrus.Fields{
		"category": story.Category,
		"target":   story.Target,
		"impact":   story.Impact,
	}).Debug("story published")

	return story, true
}

func (g *Generator) companyStory(pool []*market.Instrument) Story {
	in := pool[g.rng.Intn(len(pool))]
	t := companyTemplates[g.rng.Intn(len(companyTemplates))]

	in.Sentiment += t.impact

	return Story{
		Headline: t.render(in.CompanyName),
		Category: CategoryCompany,
		Impact:   t.impact,
		Target:   in.Symbol,
	}
}

func (g *Generator) sectorStory(pool []*market.Instrument) Story {
	sector := pool[g.rng.Intn(len(pool))].Sector
	label := sector
	if label == "" {
		label = GenericSectorLabel
	}
	t := sectorTemplates[g.rng.Intn(len(sectorTemplates))]

	for _, in := range pool {
		if in.Sector == sector {
			in.Sentiment += t.impact
		}
	}

	return Story{
		Headline: t.render(label),
		Category: CategorySector,
		Impact:   t.impact,
		Target:   label,
	}
}

func (g *Generator) marketStory(pool []*market.Instrument) Story {
	t := marketTemplates[g.rng.Intn(len(marketTemplates))]
	impact := t.impact * marketImpactMult

	for _, in := range pool {
		in.Sentiment += impact
	}

	return Story{
		Headline: t.headline,
		Category: CategoryMarket,
		Impact:   impact,
		Target:   "market",
	}
}

// Recent returns the retained stories, newest first.
func (g *Generator) Recent() []Story {
	out := make([]Story, len(g.stories))
	copy(out, g.stories)
	return out
}

func (g *Generator) push(s Story) {
	g.stories = append([]Story{s}, g.stories...)
	if len(g.stories) > g.cap {
		g.stories = g.stories[:g.cap]
	}
}

func compact(pool []*market.Instrument) []*market.Instrument {
	out := pool[:0:0]
	for _, in := range pool {
		if in != nil && in.Symbol != "" {
			out = append(out, in)
		}
	}
	return out
}
