package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/database"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
	"github.com/valeriaulyamaeva/budget-ledger-api/utils"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// ScheduleSnapshotRebuild вешает периодический пересчёт снапшотов на cron.
// Включается только переменной SNAPSHOT_CRON (например "@daily"): по умолчанию
// пересчёт идёт синхронно на каждой записи и по явному запросу.
func ScheduleSnapshotRebuild(materializer *ledger.Materializer, schedule string) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		summary, err := materializer.Rebuild(context.Background())
		if err != nil {
			log.Printf("Ошибка планового пересчёта снапшотов: %v", err)
			return
		}
		log.Printf("Плановый пересчёт снапшотов завершён: %+v", summary)
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи пересчёта снапшотов: %v", err)
	}
	c.Start()
}

// statusFor переводит типизированные ошибки движка в HTTP-статусы, не
// протаскивая наружу детали SQL.
func statusFor(err error) int {
	var vErr *ledger.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	budgets := database.NewBudgetStore(pool)
	accounts := database.NewAccountStore(pool)
	transactions := database.NewTransactionStore(pool)
	snapshots := database.NewSnapshotStore(pool)

	allocations := ledger.NewAllocationService(transactions)
	materializer := ledger.NewMaterializer(snapshots)
	queries := ledger.NewQueryService(transactions, snapshots, accounts)

	if schedule := os.Getenv("SNAPSHOT_CRON"); schedule != "" {
		ScheduleSnapshotRebuild(materializer, schedule)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		utils.GenerateDemoData(budgets, accounts, allocations, 5, 2, 40)
	}

	r := gin.Default()
	r.Use(CORSMiddleware())

	r.GET("/api/budgets", func(c *gin.Context) {
		list, err := budgets.Active(c.Request.Context())
		if err != nil {
			log.Printf("Ошибка при получении списка бюджетов: %v", err)
			c.JSON(http.StatusOK, gin.H{"budgets": []models.Budget{}, "ok": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"budgets": list, "ok": true})
	})

	r.GET("/api/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		budget, err := budgets.ByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"ok": false, "error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "budget": budget})
	})

	r.POST("/api/budgets", func(c *gin.Context) {
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if budget.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано название бюджета"})
			return
		}
		if err := budgets.Create(c.Request.Context(), &budget); err != nil {
			log.Printf("Ошибка при создании бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании бюджета"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "budget": budget})
	})

	r.PUT("/api/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		var payload struct {
			Title string `json:"title"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil || payload.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано новое название бюджета"})
			return
		}
		budget, err := budgets.Rename(c.Request.Context(), id, payload.Title)
		if err != nil {
			log.Printf("Ошибка обновления бюджета: %v", err)
			c.JSON(statusFor(err), gin.H{"error": "Ошибка при обновлении бюджета"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "budget": budget})
	})

	r.DELETE("/api/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		if err := budgets.Archive(c.Request.Context(), id); err != nil {
			log.Printf("Ошибка архивации бюджета: %v", err)
			c.JSON(statusFor(err), gin.H{"error": "Ошибка при архивации бюджета"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет перенесён в архив"})
	})

	r.GET("/api/budget_balances", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"balances": queries.BudgetBalances(c.Request.Context()), "ok": true})
	})

	r.GET("/api/budgets/:id/balance/:budget_month", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		balance, err := queries.BalanceAt(c.Request.Context(), id, c.Param("budget_month"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "balance": balance})
	})

	r.GET("/api/accounts", func(c *gin.Context) {
		list, err := accounts.Active(c.Request.Context())
		if err != nil {
			log.Printf("Ошибка при получении списка счетов: %v", err)
			c.JSON(http.StatusOK, gin.H{"accounts": []models.Account{}, "ok": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": list, "ok": true})
	})

	r.POST("/api/accounts", func(c *gin.Context) {
		var account models.Account
		if err := c.ShouldBindJSON(&account); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if account.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано название счёта"})
			return
		}
		if err := accounts.Create(c.Request.Context(), &account); err != nil {
			log.Printf("Ошибка при создании счёта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании счёта"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "account": account})
	})

	r.PUT("/api/accounts/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор счёта"})
			return
		}
		var payload struct {
			Title string `json:"title"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil || payload.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано новое название счёта"})
			return
		}
		account, err := accounts.Rename(c.Request.Context(), id, payload.Title)
		if err != nil {
			log.Printf("Ошибка обновления счёта: %v", err)
			c.JSON(statusFor(err), gin.H{"error": "Ошибка при обновлении счёта"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "account": account})
	})

	r.DELETE("/api/accounts/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор счёта"})
			return
		}
		if err := accounts.Archive(c.Request.Context(), id); err != nil {
			log.Printf("Ошибка архивации счёта: %v", err)
			c.JSON(statusFor(err), gin.H{"error": "Ошибка при архивации счёта"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Счёт перенесён в архив"})
	})

	r.GET("/api/account_balances", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"balances": queries.AccountBalances(c.Request.Context()), "ok": true})
	})

	r.GET("/api/transactions", func(c *gin.Context) {
		var filter ledger.TransactionFilter
		filter.TransactionID, _ = strconv.Atoi(c.Query("transaction_id"))
		filter.BudgetID, _ = strconv.Atoi(c.Query("budget_id"))
		filter.AccountID, _ = strconv.Atoi(c.Query("account_id"))
		c.JSON(http.StatusOK, gin.H{"transactions": queries.Transactions(c.Request.Context(), filter), "ok": true})
	})

	r.POST("/api/fund_allocation", func(c *gin.Context) {
		var request models.AllocationRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		transaction, err := allocations.Allocate(c.Request.Context(), &request)
		if err != nil {
			log.Printf("Ошибка распределения средств: %v", err)
			status := statusFor(err)
			message := "Ошибка при создании транзакции"
			if status == http.StatusUnprocessableEntity {
				message = err.Error()
			}
			c.JSON(status, gin.H{"ok": false, "error": message})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "transaction": transaction})
	})

	r.GET("/api/snapshots/month/:budget_month", func(c *gin.Context) {
		month := c.Param("budget_month")
		c.JSON(http.StatusOK, gin.H{"snapshots": queries.SnapshotsByMonth(c.Request.Context(), month), "ok": true})
	})

	r.GET("/api/snapshots/generate", func(c *gin.Context) {
		summary, err := materializer.Rebuild(c.Request.Context())
		if err != nil {
			log.Printf("Ошибка пересчёта снапшотов: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Ошибка пересчёта снапшотов"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "result": summary})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
