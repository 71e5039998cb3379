package todoserv

import (
	"context"
	"sync"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const dbConnectTimeout = 10 * time.Second

// Environment provides application-level services, principally the
// connection to the document store. It is constructed once by the
// process entry point and handed to every component that needs it;
// there is deliberately no package-global instance.
type Environment interface {
	// Settings returns the configuration the environment was
	// constructed with.
	Settings() *Settings

	Client() *mongo.Client
	DB() *mongo.Database

	// RegisterCloser adds a function to be called by Close before
	// process termination. The name is used in reporting and should
	// be unique.
	RegisterCloser(string, func(context.Context) error)
	// Close calls all registered closers.
	Close(context.Context) error
}

// NewEnvironment constructs an Environment, establishing and verifying
// a connection to the database. When NewEnvironment returns without an
// error the database is reachable.
func NewEnvironment(ctx context.Context, settings *Settings) (Environment, error) {
	if settings == nil {
		return nil, errors.New("cannot construct an environment without settings")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}

	e := &envState{
		settings: settings,
		closers:  map[string]func(context.Context) error{},
	}

	if err := e.initDB(ctx, settings.Database); err != nil {
		return nil, errors.Wrap(err, "configuring database connection")
	}

	return e, nil
}

type envState struct {
	mu       sync.RWMutex
	settings *Settings
	client   *mongo.Client
	dbName   string
	closers  map[string]func(context.Context) error
}

func (e *envState) initDB(ctx context.Context, settings DBSettings) error {
	opts := options.Client().
		ApplyURI(settings.Url).
		SetConnectTimeout(dbConnectTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return errors.Wrapf(err, "connecting to database at '%s'", settings.Url)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return errors.Wrapf(err, "pinging database at '%s'", settings.Url)
	}

	e.client = client
	e.dbName = settings.DB
	e.RegisterCloser("db-client", func(cctx context.Context) error {
		return errors.Wrap(client.Disconnect(cctx), "disconnecting database client")
	})

	return nil
}

func (e *envState) Settings() *Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

func (e *envState) Client() *mongo.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client
}

func (e *envState) DB() *mongo.Database {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client.Database(e.dbName)
}

func (e *envState) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.closers[name]; ok {
		grip.Criticalf("a closer named '%s' already exists, overwriting", name)
	}

	e.closers[name] = closer
}

func (e *envState) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	catcher := grip.NewBasicCatcher()
	for name, closer := range e.closers {
		grip.Debug(message.Fields{
			"message": "calling closer",
			"closer":  name,
		})
		catcher.Add(closer(ctx))
	}

	return catcher.Resolve()
}
