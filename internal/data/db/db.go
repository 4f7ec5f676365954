package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/adaptiq/adaptiq-backend/internal/platform/envutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
	MaxOpen    int
	MaxIdle    int
}

// ConfigFromEnv reads POSTGRES_* and SQLITE_PATH; DB_DRIVER picks one.
func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Driver:     envutil.String("DB_DRIVER", DriverPostgres, log),
		Host:       envutil.String("POSTGRES_HOST", "localhost", log),
		Port:       envutil.String("POSTGRES_PORT", "5432", log),
		User:       envutil.String("POSTGRES_USER", "postgres", log),
		Password:   envutil.String("POSTGRES_PASSWORD", "", log),
		Name:       envutil.String("POSTGRES_NAME", "adaptiq", log),
		SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable", log),
		SQLitePath: envutil.String("SQLITE_PATH", "adaptiq.db", log),
		MaxOpen:    envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
		MaxIdle:    envutil.Int("DB_MAX_IDLE_CONNS", 5, log),
	}
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.User,
			c.Password,
			c.Host,
			c.Port,
			c.Name,
			c.SSLMode,
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", c.Driver)
	}
}

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(cfg Config, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)

	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpen > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpen)
		}
		if cfg.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		}
	}

	serviceLog.Info("Database connected")
	return &Service{db: db, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
