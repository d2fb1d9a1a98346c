package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Engine holds the natillera's tunable amounts and rates. Env values
// override the defaults below; nothing else reads these from literals.
type Engine struct {
	DailyLateFeeRate   decimal.Decimal // per-day sanction on a late installment
	MaxLateFeeDays     int             // days after which the sanction stops growing
	InstallmentValue   decimal.Decimal // fixed periodic due per cupo
	AdministrationPct  decimal.Decimal // % commission on dues + profit share
	DisbursementTaxPct decimal.Decimal // % tax on the liquidation subtotal (4x1000 style)
	LiquidationExpense bool            // whether Commit appends the payout as an EXPENSE movement
}

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	Engine Engine
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDecimal(k string, d decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(k); v != "" {
		if n, err := decimal.NewFromString(v); err == nil {
			return n
		}
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "natillera"),
		MySQLUser: getenv("MYSQL_USER", "natillera"),
		MySQLPass: getenv("MYSQL_PASS", "natillera"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		Engine: Engine{
			DailyLateFeeRate:   getenvDecimal("DAILY_LATE_FEE_RATE", decimal.NewFromInt(3000)),
			MaxLateFeeDays:     getenvInt("MAX_LATE_FEE_DAYS", 15),
			InstallmentValue:   getenvDecimal("INSTALLMENT_VALUE", decimal.NewFromInt(30000)),
			AdministrationPct:  getenvDecimal("ADMIN_PERCENT", decimal.NewFromInt(8)),
			DisbursementTaxPct: getenvDecimal("DISBURSEMENT_TAX_RATE", decimal.RequireFromString("0.4")),
			LiquidationExpense: getenvBool("LIQUIDATION_LEDGER_EXPENSE", false),
		},
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	return c.Engine.Validate()
}

func (e Engine) Validate() error {
	if e.DailyLateFeeRate.IsNegative() {
		return errors.New("DAILY_LATE_FEE_RATE must not be negative")
	}
	if e.MaxLateFeeDays < 0 {
		return errors.New("MAX_LATE_FEE_DAYS must not be negative")
	}
	if e.InstallmentValue.IsNegative() {
		return errors.New("INSTALLMENT_VALUE must not be negative")
	}
	hundred := decimal.NewFromInt(100)
	if e.AdministrationPct.IsNegative() || e.AdministrationPct.GreaterThan(hundred) {
		return errors.New("ADMIN_PERCENT must be between 0 and 100")
	}
	if e.DisbursementTaxPct.IsNegative() || e.DisbursementTaxPct.GreaterThan(hundred) {
		return errors.New("DISBURSEMENT_TAX_RATE must be between 0 and 100")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATE
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
