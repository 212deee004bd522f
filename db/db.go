package db

import (
	"memories/config"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var err error
	if config.MYSQL_DSN != "" {
		Instance, err = gorm.Open(mysql.Open(mysqlDSN(config.MYSQL_DSN)), &gorm.Config{
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		})
	} else {
		Instance, err = gorm.Open(sqlite.Open(config.SQLITE_FILE), &gorm.Config{})
	}
	if err != nil || Instance == nil {
		panic(err)
	}
}

// mysqlDSN forces parseTime on so created_at columns scan into time.Time
func mysqlDSN(dsn string) string {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return dsn
	}
	cfg.ParseTime = true
	return cfg.FormatDSN()
}
