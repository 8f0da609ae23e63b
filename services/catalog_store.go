package services

import (
	"context"
	"errors"
	"time"

	"library-api/metrics"
	"library-api/models"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrStoreConnection reports that the catalog store could not be reached.
	ErrStoreConnection = errors.New("catalog store connection failed")
	// ErrStoreQuery reports a failed or malformed query.
	ErrStoreQuery = errors.New("catalog store query failed")
	// ErrRecordShape reports a document whose fields do not match the expected schema.
	ErrRecordShape = errors.New("catalog record has unexpected shape")
)

// CatalogStore is the read-only gateway over the library catalog. Implementations
// normalise raw documents into models types so nothing downstream has to deal
// with missing or mistyped fields.
type CatalogStore interface {
	// Driver names the backend, used as a metrics label.
	Driver() string
	// Connect establishes the connection. It is idempotent.
	Connect(ctx context.Context) error
	Records(ctx context.Context) ([]models.Record, error)
	Subjects(ctx context.Context) ([]models.Subject, error)
	Types(ctx context.Context) ([]models.Type, error)
	Users(ctx context.Context) ([]models.User, error)
}

// FetchCatalog connects to store and reads the four collections concurrently.
// The first failing query cancels the others and its error is returned; no
// partial data is ever returned.
func FetchCatalog(ctx context.Context, store CatalogStore) (*models.CatalogData, error) {
	if err := store.Connect(ctx); err != nil {
		return nil, err
	}

	data := &models.CatalogData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		defer observeQuery(store.Driver(), "records", time.Now(), &err)
		data.Records, err = store.Records(gctx)
		return err
	})
	g.Go(func() (err error) {
		defer observeQuery(store.Driver(), "subjects", time.Now(), &err)
		data.Subjects, err = store.Subjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		defer observeQuery(store.Driver(), "types", time.Now(), &err)
		data.Types, err = store.Types(gctx)
		return err
	})
	g.Go(func() (err error) {
		defer observeQuery(store.Driver(), "users", time.Now(), &err)
		data.Users, err = store.Users(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func observeQuery(driver, collection string, start time.Time, err *error) {
	metrics.RecordStoreQuery(driver, collection, time.Since(start), *err)
}
