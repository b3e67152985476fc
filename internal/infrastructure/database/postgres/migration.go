// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/domain/account"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger.WithField("component", "migration"),
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("running database auto-migrations")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// Account domain - Base tables
		&account.Account{},

		// Catalog
		&CatalogProduct{},

		// Product lists - Dependent tables
		&productlist.List{},
		&productlist.Item{},
		&productlist.Registrant{},
		&productlist.ShippingAddress{},
	}

	for _, model := range models {
		m.logger.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	m.logger.Info("creating additional database indexes")

	indexes := []string{
		// Account indexes
		"CREATE INDEX IF NOT EXISTS idx_accounts_email_active ON accounts(LOWER(email), is_active)",
		"CREATE INDEX IF NOT EXISTS idx_accounts_name_lower ON accounts(LOWER(first_name), LOWER(last_name))",

		// One personal list per owner
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_lists_personal_owner ON product_lists(owner_ref) WHERE kind = 'wishlist'",
		"CREATE INDEX IF NOT EXISTS idx_product_lists_public ON product_lists(kind, is_public)",
		"CREATE INDEX IF NOT EXISTS idx_product_lists_created_at ON product_lists(created_at)",

		// Item indexes
		"CREATE INDEX IF NOT EXISTS idx_product_list_items_list_position ON product_list_items(list_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_product_list_items_list_product ON product_list_items(list_id, product_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.WithFields(logrus.Fields{"created": successCount, "failed": failCount}).Info("indexes created")
	return nil
}

// SeedInitialData inserts development accounts and catalog products
func (m *Migration) SeedInitialData(ctx context.Context) error {
	m.logger.Info("seeding initial data")

	if err := m.seedAccounts(ctx); err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	if err := m.seedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	m.logger.Info("initial data seeded")
	return nil
}

type seedAccount struct {
	email     string
	password  string
	firstName string
	lastName  string
}

var seedAccounts = []seedAccount{
	{"jane.doe@example.com", "Wish-List#42", "Jane", "Doe"},
	{"john.doe@example.com", "Gift-Reg#2026", "John", "Doe"},
}

func (m *Migration) seedAccounts(ctx context.Context) error {
	for _, s := range seedAccounts {
		var existing account.Account
		err := m.db.WithContext(ctx).Where("email = ?", s.email).First(&existing).Error
		if err == nil {
			m.logger.WithField("account_id", existing.ID).Debug("seed account already exists")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		a := account.Account{
			Email:     s.email,
			Password:  string(hashedPassword),
			FirstName: s.firstName,
			LastName:  s.lastName,
			IsActive:  true,
		}
		if err := m.db.WithContext(ctx).Create(&a).Error; err != nil {
			return fmt.Errorf("failed to create account %s: %w", s.email, err)
		}
		m.logger.WithFields(logrus.Fields{"account_id": a.ID, "email": a.Email}).Info("created seed account")
	}
	return nil
}

var seedProducts = []CatalogProduct{
	{ID: "mug-classic", Name: "Classic Mug", MinOrderQuantity: 1, AvailableToSell: 120, IsActive: true},
	{ID: "tea-towel", Name: "Linen Tea Towel", MinOrderQuantity: 2, AvailableToSell: 4, IsActive: true},
	{ID: "chair-oak", Name: "Oak Chair", IsMaster: true, MinOrderQuantity: 1, AvailableToSell: 0, IsActive: true},
	{ID: "chair-oak-set", Name: "Oak Chair Set", IsVariationGroup: true, MinOrderQuantity: 1, AvailableToSell: 0, IsActive: true},
	{
		ID:               "tee-basic",
		Name:             "Basic Tee",
		IsConfigurable:   true,
		MinOrderQuantity: 1,
		AvailableToSell:  40,
		IsActive:         true,
		Options: []productlist.ProductOption{
			{ID: "size", Values: []string{"s", "m", "l"}, Default: "m"},
		},
	},
}

// SeededProductIDs lists the catalog rows SeedInitialData writes
func SeededProductIDs() []string {
	ids := make([]string, 0, len(seedProducts))
	for _, p := range seedProducts {
		ids = append(ids, p.ID)
	}
	return ids
}

func (m *Migration) seedCatalog(ctx context.Context) error {
	var count int64
	if err := m.db.WithContext(ctx).Model(&CatalogProduct{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		m.logger.WithField("products", count).Debug("catalog already seeded")
		return nil
	}

	for _, p := range seedProducts {
		if err := m.db.WithContext(ctx).Create(&p).Error; err != nil {
			m.logger.WithError(err).WithField("product_id", p.ID).Warn("failed to create seed product")
			continue
		}
		m.logger.WithField("product_id", p.ID).Info("created seed product")
	}
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	m.logger.Warn("dropping all database tables")

	// Define tables in reverse dependency order
	tables := []string{
		"product_list_addresses",
		"product_list_registrants",
		"product_list_items",
		"product_lists",
		"catalog_products",
		"accounts",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			m.logger.WithError(err).WithField("table", table).Warn("failed to drop table")
		} else {
			m.logger.WithField("table", table).Info("dropped table")
		}
	}

	return nil
}

// TableInfo is the row count of one table
type TableInfo struct {
	Name    string
	Records int64
}

// GetTableInfo returns record counts for every public table
func (m *Migration) GetTableInfo() ([]TableInfo, error) {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return nil, err
	}

	info := make([]TableInfo, 0, len(tables))
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		info = append(info, TableInfo{Name: table, Records: count})
		m.logger.WithFields(logrus.Fields{"table": table, "records": count}).Debug("table info")
	}

	return info, nil
}
