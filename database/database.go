package database

// SQL access for scripts, exposed as a host-bound 'db' type through the
// ordinary binding layer. The driver table is indexed by a friendly name;
// the blank imports below are what makes each backend available.

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/h-merrill/minnow/program"

	// SQL drivers
	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "github.com/nakagami/firebirdsql" // Firebird
	_ "github.com/sijms/go-ora"         // Oracle
	_ "modernc.org/sqlite"              // SQLite
)

// List of SQL drivers for when I want to import more: https://zchee.github.io/golang-wiki/SQLDrivers/

var drivers = map[string]string{
	"Firebird SQL": "firebirdsql", "MariaDB": "mysql", "MySQL": "mysql",
	"Oracle": "oracle", "Postgres": "postgres", "SQL Server": "sqlserver",
	"SQLite": "sqlite",
}

func GetdB(driver, dsn string) (*sql.DB, error) {
	driverName, ok := drivers[driver]
	if !ok {
		return nil, fmt.Errorf("unknown SQL driver %q", driver)
	}
	sqlObj, connectionError := sql.Open(driverName, dsn)
	if connectionError != nil {
		return nil, connectionError
	}
	if err := sqlObj.Ping(); err != nil {
		return nil, err
	}
	return sqlObj, nil
}

// MakeDSN builds the connection string the Postgres-family drivers want.
func MakeDSN(host, port, db, user, password string) string {
	return fmt.Sprintf("host=%v port=%v dbname=%v user=%v password=%v sslmode=disable",
		host, port, db, user, password)
}

func GetSortedDrivers() []string {
	dr := []string{}
	for k := range drivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

func GetDriverOptions() string {
	result := "The following SQL drivers are available: \n\n"
	for k, v := range GetSortedDrivers() {
		result = result + fmt.Sprintf("  [%v] %v\n", k, v)
	}
	return result
}

// DB is the host datum behind the script-visible 'db' type.
type DB struct {
	handle *sql.DB
}

// Register binds the 'db' type: db("SQLite", ":memory:") connects, exec
// runs a statement and yields the affected row count, queryInt and
// queryString read back a single value, close releases the connection.
func Register(p *program.Program) error {
	tb := p.BindType("db", DB{}).
		Ctor(func(driver, dsn string) (DB, error) {
			handle, err := GetdB(driver, dsn)
			return DB{handle: handle}, err
		}).
		Method("exec", func(d *DB, query string) (int, error) {
			if d.handle == nil {
				return 0, fmt.Errorf("db is not connected")
			}
			result, err := d.handle.Exec(query)
			if err != nil {
				return 0, err
			}
			affected, err := result.RowsAffected()
			return int(affected), err
		}).
		Method("queryInt", func(d *DB, query string) (int, error) {
			if d.handle == nil {
				return 0, fmt.Errorf("db is not connected")
			}
			var n int
			err := d.handle.QueryRow(query).Scan(&n)
			return n, err
		}).
		Method("queryString", func(d *DB, query string) (string, error) {
			if d.handle == nil {
				return "", fmt.Errorf("db is not connected")
			}
			var s string
			err := d.handle.QueryRow(query).Scan(&s)
			return s, err
		}).
		Method("close", func(d *DB) error {
			if d.handle == nil {
				return nil
			}
			return d.handle.Close()
		})
	return tb.Err()
}
