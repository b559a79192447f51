package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/recurring/internal/integration/persistence/model"
)

var once sync.Once
var db *Db

type Db struct {
	DbConn *gorm.DB
	models map[string]any
	schema string
}

// Tables maps every persisted table to its model.
func Tables() map[string]any {
	return map[string]any{
		"accounts":               &model.AccountModel{},
		"categories":             &model.CategoryModel{},
		"transactions":           &model.TransactionModel{},
		"recurring_transactions": &model.RecurringTransactionModel{},
		"budgets":                &model.BudgetModel{},
		"budget_categories":      &model.BudgetCategoryModel{},
	}
}

// NewDb opens the shared in-memory database once and migrates models into it.
func NewDb(schema string, models map[string]any) *Db {
	once.Do(
		func() {
			db = open(schema, models)
		},
	)

	return db
}

func open(schema string, models map[string]any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		DbConn: dbConn,
		schema: schema,
		models: models,
	}

	err = newDbMock.ClearDB()
	if err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB creates the schema on first use and empties every table.
func (d *Db) ClearDB() (err error) {
	for attempt := 1; attempt <= 5; attempt++ {
		if err = d.DbConn.Exec("ATTACH ':memory:' AS " + d.schema).Error; err != nil {
			if !strings.Contains(err.Error(), "is already in use") {
				return err
			}
		} else {
			if err = d.init(); err != nil {
				continue
			}

			_ = d.DbConn.Exec("PRAGMA schema_version").Error

			if err = d.checkTables(); err != nil {
				time.Sleep(50 * time.Millisecond)
				continue
			}
		}

		if err = d.reset(); err != nil {
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to clear database after 5 attempts: %w", err)
}

func (d *Db) init() (err error) {
	tx := d.DbConn.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			err = fmt.Errorf("panic occurred while creating tables: %v", rec)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit().Error
		}
	}()

	modelList := make([]any, 0, len(d.models))
	for _, m := range d.models {
		modelList = append(modelList, m)

		if err := tx.Migrator().DropTable(m); err != nil {
			return err
		}
	}

	if err := tx.AutoMigrate(modelList...); err != nil {
		return err
	}

	for _, m := range modelList {
		if !tx.Migrator().HasTable(m) {
			return fmt.Errorf("table for model %T was not created", m)
		}
	}

	return nil
}

func (d *Db) reset() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Db) checkTables() error {
	for _, m := range d.models {
		if !d.DbConn.Migrator().HasTable(m) {
			return fmt.Errorf("table for model %T was not created", m)
		}
	}

	return nil
}

// Count returns the number of rows in table, soft-deleted rows excluded.
func (d *Db) Count(table string) (int64, error) {
	m, ok := d.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int64
	if err := d.DbConn.Model(m).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}
