//go:build integration

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	httpadapter "github.com/simaogato/investments-backend/internal/adapter/http"
	"github.com/simaogato/investments-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/investments-backend/internal/usecase/dashboard"
	"github.com/simaogato/investments-backend/internal/usecase/investment"
	"github.com/simaogato/investments-backend/internal/usecase/investor"
	"github.com/simaogato/investments-backend/internal/usecase/seeder"
)

const apiToken = "e2e-token"

var (
	db     *postgres.DB
	server *httptest.Server
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	os.Exit(runMain(m))
}

func runMain(m *testing.M) int {
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	// 1. Connect to Database: DB_CONN_STR wins, otherwise a throwaway container
	dsn := os.Getenv("DB_CONN_STR")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("investments"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			panic(fmt.Sprintf("Failed to start postgres container: %v", err))
		}
		defer func() { _ = testcontainers.TerminateContainer(container) }()

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			panic(fmt.Sprintf("Failed to read container connection string: %v", err))
		}
	}

	var err error
	db, err = postgres.NewDB(ctx, dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		panic(fmt.Sprintf("Failed to migrate schema: %v", err))
	}

	// 2. Seed the bank catalog and start the API
	investors := postgres.NewInvestorRepository(db)
	investments := postgres.NewInvestmentRepository(db)
	banks := postgres.NewBankRepository(db)
	if _, err := seeder.NewBankSeeder(banks).Seed(ctx); err != nil {
		panic(fmt.Sprintf("Failed to seed banks: %v", err))
	}

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		InvestorService:   investor.NewInvestorService(investors),
		InvestmentService: investment.NewInvestmentService(investors, investments, banks),
		DashboardService:  dashboard.NewDashboardService(investors, investments),
		APIToken:          apiToken,
		Ready:             db.PingContext,
	})
	server = httptest.NewServer(router)
	defer server.Close()

	return m.Run()
}

// resetData removes every investor, cascading to investments and daily yields
func resetData(t *testing.T) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `DELETE FROM investors`)
	require.NoError(t, err)
}

func call(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiToken)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

type investmentJSON struct {
	ID             string          `json:"id"`
	InvestorID     string          `json:"investor_id"`
	BankName       string          `json:"bank_name"`
	BankCode       *int            `json:"bank_code"`
	InvestmentType string          `json:"investment_type"`
	Name           string          `json:"name"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
	DailyYields    []struct {
		Date              string          `json:"date"`
		AccumulatedAmount decimal.Decimal `json:"accumulated_amount"`
	} `json:"daily_yields"`
}

func cdb(name string) map[string]any {
	return map[string]any{
		"bank_name":       "Nubank",
		"investment_type": "FIXED_INCOME",
		"name":            name,
		"initial_amount":  "1000.50",
		"yield_rate":      "0.05",
		"daily_yields": []map[string]any{
			{"date": "01-01-2025", "unit_price": "100.50", "daily_rate": "0.05", "accumulated_amount": "1050.75"},
		},
	}
}

func listByTaxID(t *testing.T, taxID string) []investmentJSON {
	t.Helper()
	code, body := call(t, http.MethodGet, "/api/investments/investor/"+taxID, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var out []investmentJSON
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestEndToEndFlow(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	// Step A: register the investor
	code, body := call(t, http.MethodPost, "/api/investors", map[string]any{"tax_id": "529.982.247-25"})
	require.Equal(t, http.StatusCreated, code, string(body))

	// Step B: replace its investments with a single CDB
	code, body = call(t, http.MethodPut, "/api/investors/investments", map[string]any{
		"tax_id":      "52998224725",
		"investments": []any{cdb("CDB 2025")},
	})
	require.Equal(t, http.StatusOK, code, string(body))

	listed := listByTaxID(t, "52998224725")
	require.Len(t, listed, 1)
	assert.Equal(t, "CDB 2025", listed[0].Name)
	require.NotNil(t, listed[0].BankCode)
	assert.Equal(t, 260, *listed[0].BankCode)
	assert.True(t, decimal.RequireFromString("1000.50").Equal(listed[0].InitialAmount))
	require.Len(t, listed[0].DailyYields, 1)
	assert.Equal(t, "01-01-2025", listed[0].DailyYields[0].Date)

	// Verify the rows landed where the listing says they did
	var yieldRows int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_yields WHERE investment_id = $1`, listed[0].ID).Scan(&yieldRows)
	require.NoError(t, err)
	assert.Equal(t, 1, yieldRows)

	// Step C: append two more and update one of them
	code, body = call(t, http.MethodPost, "/api/investments", map[string]any{
		"tax_id":      "52998224725",
		"investments": []any{cdb("CDB 2026"), cdb("CDB 2027")},
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	listed = listByTaxID(t, "52998224725")
	require.Len(t, listed, 3)

	update := cdb("LCI 2027")
	update["bank_name"] = "itaú"
	update["daily_yields"] = []map[string]any{}
	code, body = call(t, http.MethodPut, "/api/investments/"+listed[2].ID, update)
	require.Equal(t, http.StatusOK, code, string(body))

	listed = listByTaxID(t, "52998224725")
	require.Len(t, listed, 3)
	assert.Equal(t, "LCI 2027", listed[2].Name)
	require.NotNil(t, listed[2].BankCode)
	assert.Equal(t, 341, *listed[2].BankCode)
	assert.Empty(t, listed[2].DailyYields)

	// Step D: the portfolio summary reflects the latest yields
	code, body = call(t, http.MethodGet, "/api/portfolio/52998224725/summary", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	var summary struct {
		Investments int             `json:"investments"`
		Invested    decimal.Decimal `json:"invested"`
		Current     decimal.Decimal `json:"current"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 3, summary.Investments)
	assert.True(t, decimal.RequireFromString("3001.50").Equal(summary.Invested))
	assert.True(t, decimal.RequireFromString("3102.00").Equal(summary.Current))

	// Step E: deleting the investor cascades
	code, body = call(t, http.MethodDelete, "/api/investors/52998224725", nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var remaining int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM investments`).Scan(&remaining))
	assert.Zero(t, remaining)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_yields`).Scan(&remaining))
	assert.Zero(t, remaining)
}

func TestNegativeScenarios(t *testing.T) {
	resetData(t)
	code, _ := call(t, http.MethodPost, "/api/investors", map[string]any{"tax_id": "52998224725"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = call(t, http.MethodPut, "/api/investments", map[string]any{
		"tax_id":      "52998224725",
		"investments": []any{cdb("CDB 2025")},
	})
	require.Equal(t, http.StatusOK, code)
	original := listByTaxID(t, "52998224725")

	// 1. Invalid Amount: the whole batch is rejected
	t.Run("InvalidAmount", func(t *testing.T) {
		bad := cdb("CDB negative")
		bad["initial_amount"] = "-100.00"
		code, _ := call(t, http.MethodPut, "/api/investments", map[string]any{
			"tax_id":      "52998224725",
			"investments": []any{cdb("CDB ok"), bad},
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, original, listByTaxID(t, "52998224725"))
	})

	// 2. Unregistered investor
	t.Run("UnknownInvestor", func(t *testing.T) {
		code, _ := call(t, http.MethodPut, "/api/investments", map[string]any{
			"tax_id":      "11144477735",
			"investments": []any{cdb("CDB 2025")},
		})
		assert.Equal(t, http.StatusNotFound, code)
	})

	// 3. Invalid investment type on update leaves the investment unchanged
	t.Run("InvalidType", func(t *testing.T) {
		bad := cdb("CDB 2025")
		bad["investment_type"] = "NOT_A_TYPE"
		code, _ := call(t, http.MethodPut, "/api/investments/"+original[0].ID, bad)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, original, listByTaxID(t, "52998224725"))
	})

	// 4. Malformed UUID
	t.Run("MalformedUUID", func(t *testing.T) {
		code, _ := call(t, http.MethodDelete, "/api/investments/not-a-uuid", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	// 5. Deleting an investor under an impossible tax ID
	t.Run("InvalidTaxIDDelete", func(t *testing.T) {
		code, _ := call(t, http.MethodDelete, "/api/investors/00000000000", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	// 6. Duplicate registration
	t.Run("DuplicateInvestor", func(t *testing.T) {
		code, _ := call(t, http.MethodPost, "/api/investors", map[string]any{"tax_id": "529.982.247-25"})
		assert.Equal(t, http.StatusConflict, code)
	})
}

// TestReadFlow tests the derived listings
func TestReadFlow(t *testing.T) {
	resetData(t)
	code, _ := call(t, http.MethodPost, "/api/investors", map[string]any{"tax_id": "12345678909"})
	require.Equal(t, http.StatusCreated, code)

	equity := cdb("PETR4")
	equity["bank_name"] = "XP"
	equity["investment_type"] = "EQUITY"
	code, _ = call(t, http.MethodPut, "/api/investments", map[string]any{
		"tax_id":      "12345678909",
		"investments": []any{cdb("CDB 2025"), equity, cdb("CDB 2026")},
	})
	require.Equal(t, http.StatusOK, code)

	code, body := call(t, http.MethodGet, "/api/banks/12345678909", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"name":"Nubank","code":260},{"name":"XP","code":null}]`, string(body))

	code, body = call(t, http.MethodGet, "/api/investment-types/12345678909", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `["FIXED_INCOME","EQUITY"]`, string(body))

	code, _ = call(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, code)
}
