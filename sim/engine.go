// Package sim wires the price process, news generator, ledger, and journal
// into one running simulation. The engine owns all mutable market and
// portfolio state; HTTP handlers and timer goroutines reach it only through
// mutex-guarded methods.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/stocksim/internal/id"
	"github.com/rustyeddy/stocksim/internal/sched"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/news"
	"github.com/rustyeddy/stocksim/portfolio"
)

var (
	ErrUnknownPortfolio = errors.New("unknown portfolio")
	ErrDuplicateSymbol  = errors.New("symbol already exists")

	// ErrPersistence marks a transaction that executed in memory but could
	// not be durably recorded. The ledger state stands; the caller should
	// refresh from the journal rather than silently retry.
	ErrPersistence = errors.New("persistence failure")
)

// Options configures an Engine. Zero values fall back to the defaults
// noted on each field.
type Options struct {
	Rng          *rand.Rand    // time-seeded when nil
	Clock        sched.Clock   // wall clock when nil
	Logger       *logrus.Logger
	Journal      journal.Journal // memory journal when nil
	Seeds        []market.Seed   // market.DefaultSeeds when empty
	TickInterval time.Duration   // 3s
	NewsInterval time.Duration   // 45s
	HistoryDays  int             // synthetic samples per instrument, 30
	NewsCap      int             // retained stories, news.DefaultHistoryCap
}

// Engine is one simulation session.
type Engine struct {
	mu          sync.Mutex
	log         *logrus.Entry
	clock       sched.Clock
	proc        *market.Process
	instruments map[string]*market.Instrument
	order       []string
	portfolios  map[string]*portfolio.Portfolio
	ledger      *portfolio.Ledger
	gen         *news.Generator
	journal     journal.Journal
	bus         *Bus

	priceTimer   *sched.Scheduler
	tickInterval time.Duration
	newsInterval time.Duration
}

func NewEngine(opts Options) *Engine {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = sched.RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Journal == nil {
		opts.Journal = journal.NewMemory()
	}
	if len(opts.Seeds) == 0 {
		opts.Seeds = market.DefaultSeeds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 3 * time.Second
	}
	if opts.NewsInterval <= 0 {
		opts.NewsInterval = 45 * time.Second
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 30
	}

	e := &Engine{
		log:          opts.Logger.WithField("component", "engine"),
		clock:        opts.Clock,
		proc:         market.NewProcess(opts.Rng),
		instruments:  make(map[string]*market.Instrument),
		portfolios:   make(map[string]*portfolio.Portfolio),
		ledger:       portfolio.NewLedger(),
		journal:      opts.Journal,
		bus:          NewBus(opts.Logger),
		tickInterval: opts.TickInterval,
		newsInterval: opts.NewsInterval,
	}

	for _, s := range opts.Seeds {
		in := market.NewInstrument(s.Symbol, s.CompanyName, s.Sector, s.StartPrice, s.Volatility)
		e.proc.SeedHistory(in, opts.HistoryDays)
		e.instruments[in.Symbol] = in
		e.order = append(e.order, in.Symbol)
	}

	e.gen = news.NewGenerator(news.Options{
		Rng:        opts.Rng,
		Clock:      opts.Clock,
		Logger:     opts.Logger,
		HistoryCap: opts.NewsCap,
		Fire:       e.newsTick,
	})
	e.priceTimer = sched.New(opts.Clock, e.priceTick)

	return e
}

// Bus exposes the engine's event stream for subscribers.
func (e *Engine) Bus() *Bus { return e.bus }

// Start arms the price and news timers. Restart while running re-arms both
// without leaking loops.
func (e *Engine) Start() {
	e.log.WithFields(logrus.Fields{
		"tick_interval": e.tickInterval,
		"news_interval": e.newsInterval,
	}).Info("simulation started")
	e.priceTimer.Start(e.tickInterval)
	e.gen.Start(e.newsInterval)
}

// Stop releases both timers. Safe to call repeatedly; a stopped engine can
// be started again.
func (e *Engine) Stop() {
	e.priceTimer.Stop()
	e.gen.Stop()
	e.log.Info("simulation stopped")
}

// Running reports whether the price loop is armed.
func (e *Engine) Running() bool { return e.priceTimer.Running() }

// priceTick advances every instrument one step and publishes the fresh
// quotes. Errors cannot occur in the price model; nothing here may stop
// the timer.
func (e *Engine) priceTick() {
	e.mu.Lock()
	e.proc.AdvanceTrend()
	now := e.clock.Now()
	quotes := make([]market.Quote, 0, len(e.order))
	for _, sym := range e.order {
		in := e.instruments[sym]
		e.proc.Tick(in)
		quotes = append(quotes, in.Snapshot(now))
	}
	e.mu.Unlock()

	e.bus.Publish(Event{Type: EventPriceUpdated, Quotes: quotes})
}

// newsTick runs one generator burst under the engine lock, since stories
// mutate instrument sentiment.
func (e *Engine) newsTick() {
	e.mu.Lock()
	pool := make([]*market.Instrument, 0, len(e.order))
	for _, sym := range e.order {
		pool = append(pool, e.instruments[sym])
	}
	story, ok := e.gen.GenerateStory(pool)
	e.mu.Unlock()

	if ok {
		e.bus.Publish(Event{Type: EventNewsPublished, Story: &story})
	}
}

// TickOnce advances the simulation a single step synchronously. Used by the
// headless run command and tests; the timers call the same path.
func (e *Engine) TickOnce() {
	e.priceTick()
}

// EmitStory forces one news burst, bypassing the timer.
func (e *Engine) EmitStory() {
	e.newsTick()
}

// CreatePortfolio registers a new portfolio with the given starting cash.
// The returned value is a copy; the live portfolio stays inside the engine.
func (e *Engine) CreatePortfolio(name string, initialBalance float64) portfolio.Portfolio {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := portfolio.New(id.New(), name, initialBalance)
	e.portfolios[p.ID] = p
	e.log.WithFields(logrus.Fields{
		"portfolio": p.ID,
		"balance":   initialBalance,
	}).Info("portfolio created")
	return p.Copy()
}

// AddInstrument registers a user-defined instrument and seeds its history.
func (e *Engine) AddInstrument(s market.Seed) (market.Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.Symbol == "" || s.StartPrice <= 0 {
		return market.Quote{}, fmt.Errorf("instrument needs a symbol and a positive start price")
	}
	if _, exists := e.instruments[s.Symbol]; exists {
		return market.Quote{}, fmt.Errorf("%w: %s", ErrDuplicateSymbol, s.Symbol)
	}
	if s.Volatility <= 0 {
		s.Volatility = 0.02
	}

	in := market.NewInstrument(s.Symbol, s.CompanyName, s.Sector, s.StartPrice, s.Volatility)
	e.proc.SeedHistory(in, 30)
	e.instruments[in.Symbol] = in
	e.order = append(e.order, in.Symbol)

	e.log.WithField("symbol", in.Symbol).Info("instrument added")
	return in.Snapshot(e.clock.Now()), nil
}

// Buy executes a purchase against the instrument's current price, then
// records it in the journal. Validation failures leave the portfolio
// untouched and emit a transactionFailed event. A journal failure does NOT
// roll the ledger back: the error wraps ErrPersistence so the caller knows
// to refresh instead of retrying.
func (e *Engine) Buy(portfolioID, symbol string, qty int) (portfolio.Transaction, error) {
	return e.execute(portfolioID, symbol, qty, e.ledger.Buy)
}

// Sell mirrors Buy for disposals.
func (e *Engine) Sell(portfolioID, symbol string, qty int) (portfolio.Transaction, error) {
	return e.execute(portfolioID, symbol, qty, e.ledger.Sell)
}

type ledgerOp func(*portfolio.Portfolio, *market.Instrument, int, time.Time) (portfolio.Transaction, error)

func (e *Engine) execute(portfolioID, symbol string, qty int, op ledgerOp) (portfolio.Transaction, error) {
	e.mu.Lock()

	p, ok := e.portfolios[portfolioID]
	if !ok {
		e.mu.Unlock()
		return portfolio.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownPortfolio, portfolioID)
	}

	in := e.instruments[symbol]
	if in == nil {
		e.mu.Unlock()
		err := fmt.Errorf("%w: %s", portfolio.ErrUnknownInstrument, symbol)
		e.bus.Publish(Event{Type: EventTransactionFailed, PortfolioID: portfolioID, Error: err.Error()})
		return portfolio.Transaction{}, err
	}

	tx, err := op(p, in, qty, e.clock.Now())
	if err != nil {
		e.mu.Unlock()
		e.bus.Publish(Event{Type: EventTransactionFailed, PortfolioID: portfolioID, Error: err.Error()})
		return portfolio.Transaction{}, err
	}

	snap := e.snapshotLocked(p)
	e.mu.Unlock()

	e.bus.Publish(Event{Type: EventTransactionCompleted, PortfolioID: portfolioID, Transaction: &tx})

	if err := e.journal.RecordTransaction(portfolioID, tx); err != nil {
		e.log.WithError(err).WithField("tx", tx.ID).Error("journal write failed")
		return tx, fmt.Errorf("%w: record transaction: %v", ErrPersistence, err)
	}
	if err := e.journal.RecordState(snap); err != nil {
		e.log.WithError(err).WithField("portfolio", portfolioID).Error("journal write failed")
		return tx, fmt.Errorf("%w: record state: %v", ErrPersistence, err)
	}

	return tx, nil
}

func (e *Engine) snapshotLocked(p *portfolio.Portfolio) journal.StateSnapshot {
	holdings := make([]portfolio.Holding, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		holdings = append(holdings, *h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })

	return journal.StateSnapshot{
		PortfolioID: p.ID,
		Time:        e.clock.Now(),
		CashBalance: p.CashBalance,
		Holdings:    holdings,
	}
}

// Refresh overwrites a portfolio's cash and holdings with the journal's
// latest snapshot. This is the recovery path after ErrPersistence: the
// journal is the source of truth, last write wins.
func (e *Engine) Refresh(portfolioID string) error {
	reader, ok := e.journal.(journal.Reader)
	if !ok {
		return fmt.Errorf("journal backend does not support reads")
	}

	snap, err := reader.LatestState(portfolioID)
	if err != nil {
		return fmt.Errorf("refresh portfolio %s: %w", portfolioID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, okP := e.portfolios[portfolioID]
	if !okP {
		return fmt.Errorf("%w: %s", ErrUnknownPortfolio, portfolioID)
	}

	p.CashBalance = snap.CashBalance
	p.Holdings = make(map[string]*portfolio.Holding, len(snap.Holdings))
	for i := range snap.Holdings {
		h := snap.Holdings[i]
		p.Holdings[h.Symbol] = &h
	}
	return nil
}

// Quotes returns a snapshot of every instrument in listing order.
func (e *Engine) Quotes() []market.Quote {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	out := make([]market.Quote, 0, len(e.order))
	for _, sym := range e.order {
		out = append(out, e.instruments[sym].Snapshot(now))
	}
	return out
}

// Quote returns one instrument's snapshot and its price history.
func (e *Engine) Quote(symbol string) (market.Quote, []float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.instruments[symbol]
	if in == nil {
		return market.Quote{}, nil, fmt.Errorf("%w: %s", portfolio.ErrUnknownInstrument, symbol)
	}
	return in.Snapshot(e.clock.Now()), in.History.Samples(), nil
}

// Stories returns the retained news feed, newest first.
func (e *Engine) Stories() []news.Story {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen.Recent()
}

// Valuation derives the current figures for one portfolio.
func (e *Engine) Valuation(portfolioID string) (portfolio.Valuation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.portfolios[portfolioID]
	if !ok {
		return portfolio.Valuation{}, fmt.Errorf("%w: %s", ErrUnknownPortfolio, portfolioID)
	}
	return portfolio.Valuate(p, e.instruments), nil
}

// Portfolio returns a copy of the portfolio taken under the engine lock.
// Concurrent Buy and Sell calls keep mutating the original; they can never
// tear a snapshot a caller is reading.
func (e *Engine) Portfolio(portfolioID string) (portfolio.Portfolio, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.portfolios[portfolioID]
	if !ok {
		return portfolio.Portfolio{}, fmt.Errorf("%w: %s", ErrUnknownPortfolio, portfolioID)
	}
	return p.Copy(), nil
}

// Portfolios lists registered portfolio IDs.
func (e *Engine) Portfolios() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.portfolios))
	for pid := range e.portfolios {
		out = append(out, pid)
	}
	sort.Strings(out)
	return out
}
