package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/repository"
	"intakehub/internal/shared"

	"github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

const table = "intake_records"

var columns = []string{
	"id", "timestamp", "household_size", "male_adult_count", "female_adult_count",
	"male_adult_ages", "female_adult_ages", "child_ages", "child_count",
	"school_levels", "zip", "referral_source", "phone", "email", "name", "arrival_mode",
}

// Ensure SQLiteRepository implements repository.Store
var _ repository.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	DB      *sql.DB
	Builder squirrel.StatementBuilderType // SQL Query Builder
	Logger  *logrus.Logger
	Now     repository.Clock
}

// NewRepository opens (or creates) the database file at path. The schema
// is not touched; call EnsureSchemaBootstrapped or Migrate for that.
func NewRepository(path string, logger *logrus.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, shared.WrapStorage("open", err)
	}
	// A single connection serializes writers inside the process.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, shared.WrapStorage("open", err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &SQLiteRepository{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		Logger:  logger,
		Now:     time.Now,
	}, nil
}

func (s *SQLiteRepository) Close() error {
	return s.DB.Close()
}

func (s *SQLiteRepository) LoadAll(ctx context.Context) ([]models.IntakeRecord, error) {
	records, err := repository.Collect(s.Scan(ctx, nil))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.IntakeRecord{}
	}
	return records, nil
}

func (s *SQLiteRepository) Get(ctx context.Context, key models.StoreKey) (models.IntakeRecord, error) {
	query, args, err := s.Builder.Select(columns...).From(table).Where(squirrel.Eq{"id": int64(key)}).ToSql()
	if err != nil {
		return models.IntakeRecord{}, err
	}

	rec, err := scanRecord(s.DB.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return models.IntakeRecord{}, shared.ErrNotFound
	}
	if err != nil {
		return models.IntakeRecord{}, shared.WrapStorage("get", err)
	}
	return rec, nil
}

func (s *SQLiteRepository) Append(ctx context.Context, rec models.IntakeRecord) (models.StoreKey, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, shared.WrapStorage("append", err)
	}
	defer tx.Rollback() // Rollback on any error

	if rec.Timestamp == "" {
		last, err := lastTimestamp(ctx, tx)
		if err != nil {
			return 0, shared.WrapStorage("append", err)
		}
		rec.Timestamp = repository.NextTimestamp(s.Now(), last)
	}

	query, args, err := s.Builder.Insert(table).
		Columns(columns[1:]...).
		Values(
			rec.Timestamp, rec.HouseholdSize, rec.MaleAdultCount, rec.FemaleAdultCount,
			rec.MaleAdultAges, rec.FemaleAdultAges, rec.ChildAges, rec.ChildCount,
			rec.SchoolLevels, rec.Zip, rec.ReferralSource, rec.Phone, rec.Email,
			rec.Name, string(rec.ArrivalMode),
		).ToSql()
	if err != nil {
		return 0, err
	}
	s.Logger.Debugf("Generated SQL for Append: %s", query)

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, shared.WrapStorage("append", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, shared.WrapStorage("append", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, shared.WrapStorage("append", err)
	}
	return models.StoreKey(id), nil
}

func (s *SQLiteRepository) UpdateByKey(ctx context.Context, key models.StoreKey, upd models.IntakeUpdate) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return shared.WrapStorage("update", err)
	}
	defer tx.Rollback()

	last, err := lastTimestamp(ctx, tx)
	if err != nil {
		return shared.WrapStorage("update", err)
	}

	set := updateColumns(upd)
	set["timestamp"] = repository.NextTimestamp(s.Now(), last)

	query, args, err := s.Builder.Update(table).SetMap(set).Where(squirrel.Eq{"id": int64(key)}).ToSql()
	if err != nil {
		return err
	}
	s.Logger.Debugf("Generated SQL for UpdateByKey: %s", query)

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return shared.WrapStorage("update", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return shared.WrapStorage("update", err)
	} else if n == 0 {
		return shared.ErrNotFound
	}

	return shared.WrapStorage("update", tx.Commit())
}

func (s *SQLiteRepository) DeleteByKey(ctx context.Context, key models.StoreKey) error {
	query, args, err := s.Builder.Delete(table).Where(squirrel.Eq{"id": int64(key)}).ToSql()
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return shared.WrapStorage("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.WrapStorage("delete", err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *SQLiteRepository) Scan(ctx context.Context, match func(models.IntakeRecord) bool) iter.Seq2[models.IntakeRecord, error] {
	return func(yield func(models.IntakeRecord, error) bool) {
		query, args, err := s.Builder.Select(columns...).From(table).OrderBy("id ASC").ToSql()
		if err != nil {
			yield(models.IntakeRecord{}, err)
			return
		}

		rows, err := s.DB.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.IntakeRecord{}, shared.WrapStorage("scan", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				yield(models.IntakeRecord{}, shared.WrapStorage("scan", err))
				return
			}
			if match != nil && !match(rec) {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.IntakeRecord{}, shared.WrapStorage("scan", err))
		}
	}
}

// Repair re-checks the schema version. Column width is fixed by the table
// definition, so there are never misaligned rows to fix.
func (s *SQLiteRepository) Repair(ctx context.Context, dryRun bool) (int, error) {
	if err := s.ValidateSchema(); err != nil {
		return 0, err
	}
	s.Logger.Debugf("Repair: schema is current, nothing to fix (dry run: %t)", dryRun)
	return 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.IntakeRecord, error) {
	var (
		rec  models.IntakeRecord
		id   int64
		mode string
	)
	err := row.Scan(
		&id, &rec.Timestamp, &rec.HouseholdSize, &rec.MaleAdultCount, &rec.FemaleAdultCount,
		&rec.MaleAdultAges, &rec.FemaleAdultAges, &rec.ChildAges, &rec.ChildCount,
		&rec.SchoolLevels, &rec.Zip, &rec.ReferralSource, &rec.Phone, &rec.Email,
		&rec.Name, &mode,
	)
	if err != nil {
		return models.IntakeRecord{}, err
	}
	rec.Key = models.StoreKey(id)
	rec.ArrivalMode = models.ArrivalMode(mode)
	return rec, nil
}

func lastTimestamp(ctx context.Context, tx *sql.Tx) (string, error) {
	var last sql.NullString
	if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT MAX(timestamp) FROM %s", table)).Scan(&last); err != nil {
		return "", err
	}
	return last.String, nil
}

func updateColumns(upd models.IntakeUpdate) map[string]interface{} {
	set := map[string]interface{}{}
	if upd.HouseholdSize != nil {
		set["household_size"] = *upd.HouseholdSize
	}
	if upd.MaleAdultCount != nil {
		set["male_adult_count"] = *upd.MaleAdultCount
	}
	if upd.FemaleAdultCount != nil {
		set["female_adult_count"] = *upd.FemaleAdultCount
	}
	if upd.MaleAdultAges != nil {
		set["male_adult_ages"] = *upd.MaleAdultAges
	}
	if upd.FemaleAdultAges != nil {
		set["female_adult_ages"] = *upd.FemaleAdultAges
	}
	if upd.ChildAges != nil {
		set["child_ages"] = *upd.ChildAges
	}
	if upd.ChildCount != nil {
		set["child_count"] = *upd.ChildCount
	}
	if upd.SchoolLevels != nil {
		set["school_levels"] = *upd.SchoolLevels
	}
	if upd.Zip != nil {
		set["zip"] = *upd.Zip
	}
	if upd.ReferralSource != nil {
		set["referral_source"] = *upd.ReferralSource
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ArrivalMode != nil {
		set["arrival_mode"] = string(*upd.ArrivalMode)
	}
	return set
}
