package services

import (
	"context"
	"encoding/json"
	"fmt"

	"library-api/config"
	"library-api/models"

	"gorm.io/gorm"
)

// SQLCatalogStore reads the relational mirror of the catalog through gorm.
//
// Tables: journals(type, subject_id, detail_id), subjects(subject_id,
// subject_name), journal_details(detail_id, indexing JSON), types(name),
// users(role).
type SQLCatalogStore struct {
	db *gorm.DB
}

type journalRow struct {
	Type        *string
	SubjectName *string
	Indexing    []byte
}

// NewSQLCatalogStore instantiates the store.
func NewSQLCatalogStore(db *gorm.DB) *SQLCatalogStore {
	return &SQLCatalogStore{db: db}
}

func (s *SQLCatalogStore) Driver() string { return config.StoreDriverMySQL }

// Connect pings the pool; database/sql reconnects on its own so this is safe to repeat.
func (s *SQLCatalogStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreConnection, err)
	}
	return nil
}

func (s *SQLCatalogStore) Records(ctx context.Context) ([]models.Record, error) {
	var rows []journalRow
	err := s.db.WithContext(ctx).
		Table("journals AS j").
		Select("j.type AS type, s.subject_name AS subject_name, d.indexing AS indexing").
		Joins("LEFT JOIN subjects s ON s.subject_id = j.subject_id").
		Joins("LEFT JOIN journal_details d ON d.detail_id = j.detail_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: journals: %v", ErrStoreQuery, err)
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		indexing, err := parseIndexingJSON(row.Indexing)
		if err != nil {
			return nil, err
		}
		records = append(records, models.Record{
			Type:        stringValue(row.Type),
			SubjectName: stringValue(row.SubjectName),
			Indexing:    indexing,
		})
	}
	return records, nil
}

func (s *SQLCatalogStore) Subjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := s.db.WithContext(ctx).Select("COALESCE(subject_name, '') AS subject_name").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("%w: subjects: %v", ErrStoreQuery, err)
	}
	return subjects, nil
}

func (s *SQLCatalogStore) Types(ctx context.Context) ([]models.Type, error) {
	var types []models.Type
	if err := s.db.WithContext(ctx).Select("COALESCE(name, '') AS name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("%w: types: %v", ErrStoreQuery, err)
	}
	return types, nil
}

func (s *SQLCatalogStore) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Select("COALESCE(role, '') AS role").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrStoreQuery, err)
	}
	return users, nil
}

// parseIndexingJSON decodes the indexing column. NULL, empty and JSON null mean
// "no indexing"; anything but an array is a shape error.
func parseIndexingJSON(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: indexing: %v", ErrRecordShape, err)
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		labels := make([]string, 0, len(v))
		for _, item := range v {
			if label, ok := item.(string); ok {
				labels = append(labels, label)
			}
		}
		return labels, nil
	default:
		return nil, fmt.Errorf("%w: indexing is %T, want array", ErrRecordShape, value)
	}
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
