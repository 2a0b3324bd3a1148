package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/escrow"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by Info.
const Name = "bazaar"

// Options configure the application built by New.
type Options struct {
	Logger log.Logger
	// Registerer receives the request metrics. Metrics are disabled when
	// nil.
	Registerer prometheus.Registerer
	// Debug disables redaction of internal errors in results.
	Debug bool
}

// Chain returns the decorators every message passes through before it
// reaches the router.
func Chain(metrics *utils.Metrics) Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// all state changes of a message are written together or not at all
		utils.NewSavepoint().OnCheck().OnDeliver(),
	)
}

// NewAppRouter returns a router with the handlers of all extensions registered.
func NewAppRouter(auth x.Authenticator) *Router {
	r := NewRouter()
	bank := cash.NewController(cash.NewBucket())
	sigs.RegisterRoutes(r, auth)
	cash.RegisterRoutes(r, auth, bank)
	escrow.RegisterRoutes(r, auth, bank)
	return r
}

// QueryRouter returns a query router that can read every bucket.
func QueryRouter() bazaar.QueryRouter {
	r := bazaar.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		cash.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() bazaar.Initializer {
	return bazaar.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Stack wires the full handler: decorators and router.
func Stack(metrics *utils.Metrics) bazaar.Handler {
	return Chain(metrics).WithHandler(NewAppRouter(sigs.Authenticate{}))
}

// New builds the application on top of the given store.
func New(kv bazaar.CommitKVStore, opts Options) (*BaseApp, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	var metrics *utils.Metrics
	if opts.Registerer != nil {
		m, err := utils.NewMetrics(opts.Registerer)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	store := NewStoreApp(Name, kv, QueryRouter(), newContext()).
		WithInit(Initializers()).
		WithLogger(logger)
	return NewBaseApp(store, DecodeTx, Stack(metrics), opts.Debug), nil
}
