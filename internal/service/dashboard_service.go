package service

import (
	"time"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is the inventory overview.
type DashboardStats struct {
	TotalItems      int             `json:"total_items"`
	LowStockCount   int             `json:"low_stock_count"`
	CriticalCount   int             `json:"critical_count"`
	SuggestionCount int             `json:"suggestion_count"`
	StockValuation  decimal.Decimal `json:"stock_valuation"`
}

// FinanceSummary aggregates money across the pipeline.
type FinanceSummary struct {
	OpenQuoteTotal     decimal.Decimal `json:"open_quote_total"`
	AcceptedQuoteTotal decimal.Decimal `json:"accepted_quote_total"`
	CompletedRevenue   decimal.Decimal `json:"completed_revenue"`
}

type DashboardService interface {
	GetStats(tenantID uuid.UUID) (*DashboardStats, error)
	GetStockMovement(tenantID uuid.UUID, days int) ([]repository.MovementSeriesPoint, error)
	GetFinanceSummary(tenantID uuid.UUID) (*FinanceSummary, error)
}

type dashboardService struct {
	stockRepo    repository.StockItemRepository
	movementRepo repository.StockMovementRepository
	quoteRepo    repository.QuoteRepository
	orderRepo    repository.OrderRepository
}

func NewDashboardService(
	stockRepo repository.StockItemRepository,
	movementRepo repository.StockMovementRepository,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
) DashboardService {
	return &dashboardService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		quoteRepo:    quoteRepo,
		orderRepo:    orderRepo,
	}
}

func (s *dashboardService) GetStats(tenantID uuid.UUID) (*DashboardStats, error) {
	items, err := s.stockRepo.FindAll(tenantID)
	if err != nil {
		return nil, err
	}

	stats := DashboardStats{TotalItems: len(items), StockValuation: decimal.Zero}
	for _, item := range items {
		switch item.Health() {
		case model.HealthLow:
			stats.LowStockCount++
		case model.HealthCritical:
			stats.CriticalCount++
		}
		if item.Available() < item.ReorderPoint && item.IsActive {
			stats.SuggestionCount++
		}
		stats.StockValuation = stats.StockValuation.Add(
			item.AvgCost.Mul(decimal.NewFromFloat(item.Quantity)))
	}
	return &stats, nil
}

func (s *dashboardService) GetStockMovement(tenantID uuid.UUID, days int) ([]repository.MovementSeriesPoint, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.GetMovementSeries(tenantID, startDate, endDate)
}

func (s *dashboardService) GetFinanceSummary(tenantID uuid.UUID) (*FinanceSummary, error) {
	quotes, err := s.quoteRepo.FindAll(tenantID)
	if err != nil {
		return nil, err
	}

	summary := FinanceSummary{
		OpenQuoteTotal:     decimal.Zero,
		AcceptedQuoteTotal: decimal.Zero,
		CompletedRevenue:   decimal.Zero,
	}
	for _, q := range quotes {
		switch q.Status {
		case model.QuoteDraft, model.QuoteSent:
			summary.OpenQuoteTotal = summary.OpenQuoteTotal.Add(q.Total)
		case model.QuoteAccepted:
			summary.AcceptedQuoteTotal = summary.AcceptedQuoteTotal.Add(q.Total)
		}
	}

	revenue, err := s.orderRepo.SumCompletedTotals(tenantID)
	if err != nil {
		return nil, err
	}
	if revenue != "" {
		if d, err := decimal.NewFromString(revenue); err == nil {
			summary.CompletedRevenue = d
		}
	}
	return &summary, nil
}
