package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/vango-dev/hxstate/internal/config"
	"github.com/vango-dev/hxstate/pkg/session"
)

// Key prefixes of the three logical namespaces.
const (
	bindingPrefix = "binding:"
	counterPrefix = "counter:"
	todosPrefix   = "todos:"
)

// stores holds the three namespaces and whatever must be closed on exit.
type stores struct {
	bindings session.Store
	counters session.Store
	todos    session.Store

	closers []io.Closer
}

// Close closes every backend resource, in reverse opening order.
func (s *stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// split carves one backend into the three namespaces.
func split(backend session.Store, closers ...io.Closer) *stores {
	return &stores{
		bindings: session.Namespace(backend, bindingPrefix),
		counters: session.Namespace(backend, counterPrefix),
		todos:    session.Namespace(backend, todosPrefix),
		closers:  append(closers, backend),
	}
}

// openStores opens the configured backend.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return split(session.NewMemoryStore()), nil
	case config.BackendRedis:
		return openRedis(ctx, cfg.Store.Redis)
	case config.BackendSQLite:
		return openSQL(ctx, session.DialectSQLite, cfg.Store)
	case config.BackendPostgres:
		return openSQL(ctx, session.DialectPostgreSQL, cfg.Store)
	case config.BackendS3:
		return openS3(ctx, cfg.Store.S3)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openRedis keeps bindings in BindingDB and records in DB. When both name
// the same database, one client serves all three namespaces.
func openRedis(ctx context.Context, rc config.RedisConfig) (*stores, error) {
	records := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})
	if err := records.Ping(ctx).Err(); err != nil {
		_ = records.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", rc.Addr, rc.DB, err)
	}
	recordStore := session.NewRedisStore(session.GoRedis(records))

	if rc.BindingDB == rc.DB {
		return split(recordStore, records), nil
	}

	bindings := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.BindingDB})
	if err := bindings.Ping(ctx).Err(); err != nil {
		_ = bindings.Close()
		_ = records.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", rc.Addr, rc.BindingDB, err)
	}
	bindingStore := session.NewRedisStore(session.GoRedis(bindings))

	s := split(recordStore, records, bindings, bindingStore)
	s.bindings = session.Namespace(bindingStore, bindingPrefix)
	return s, nil
}

func openSQL(ctx context.Context, dialect session.SQLDialect, sc config.StoreConfig) (*stores, error) {
	db, err := session.OpenSQL(ctx, dialect, sc.DSN)
	if err != nil {
		return nil, err
	}
	store := session.NewSQLStore(db,
		session.WithSQLDialect(dialect),
		session.WithSQLTableName(sc.SQLTable),
	)
	if err := store.CreateTable(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table %s: %w", sc.SQLTable, err)
	}
	return split(store, db), nil
}

func openS3(ctx context.Context, sc config.S3Config) (*stores, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if sc.Region != "" {
		opts = append(opts, awsconfig.WithRegion(sc.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
		}
		o.UsePathStyle = sc.UsePathStyle
	})
	return split(session.NewS3Store(client, sc.Bucket, session.WithS3Prefix(sc.Prefix))), nil
}
