package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/repository/mongodb"
	repo "github.com/mamadbah2/stockroom/internal/repository/sheets"
)

const (
	dateLayout          = "2006-01-02"
	inventoryWriteRange = "Inventory!A:C"
	movementsWriteRange = "Movements!A:E"
	dailyExportLimit    = 200
)

// StockSource exposes the inventory views the reporting service needs.
type StockSource interface {
	Report() models.InventoryReport
	LowStock(threshold int) []string
	Movements(limit int) []models.Movement
}

// Service renders inventory reports and publishes them to the configured
// sinks (spreadsheet rows, daily snapshot documents, alert text).
type Service struct {
	stock     StockSource
	sheets    repo.Repository
	snapshots mongodb.Repository
	threshold int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. sheets and snapshots
// may be nil when the corresponding integrations are not configured.
func NewService(stock StockSource, sheets repo.Repository, snapshots mongodb.Repository, threshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stock:     stock,
		sheets:    sheets,
		snapshots: snapshots,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

// RenderText formats a report in the classic items-report framing.
func RenderText(report models.InventoryReport) string {
	var b strings.Builder
	b.WriteString("--- Items Report ---\n")
	if len(report.Items) == 0 {
		b.WriteString("Inventory is empty.\n")
	} else {
		for _, item := range report.Items {
			fmt.Fprintf(&b, "%s: %d\n", item.Name, item.Quantity)
		}
	}
	b.WriteString("--------------------\n")
	return b.String()
}

// BuildLowStockAlert produces the alert reply for items at or below the
// configured threshold.
func (s *Service) BuildLowStockAlert() models.CommandReply {
	low := s.stock.LowStock(s.threshold)

	if len(low) == 0 {
		return models.CommandReply{
			Title:   "Low Stock Alert",
			Message: fmt.Sprintf("All items are above the threshold of %d.", s.threshold),
		}
	}

	return models.CommandReply{
		Title:   "Low Stock Alert",
		Message: fmt.Sprintf("%d item(s) at or below %d: %s.", len(low), s.threshold, strings.Join(low, ", ")),
	}
}

// PublishDaily pushes the current inventory to the spreadsheet and stores a
// daily snapshot document. Each sink failure is reported; the other sink
// still runs.
func (s *Service) PublishDaily(ctx context.Context) error {
	report := s.stock.Report()
	date := s.now().UTC()

	var firstErr error

	if s.sheets != nil {
		if err := s.exportToSheets(ctx, date, report); err != nil {
			s.logger.Error("failed to export report to sheets", zap.Error(err))
			firstErr = err
		}
	}

	if s.snapshots != nil {
		snap := models.DailySnapshot{
			Date:       date,
			Stock:      itemsToMap(report.Items),
			TotalItems: report.TotalItems,
			TotalUnits: report.TotalUnits,
			LowStock:   s.stock.LowStock(s.threshold),
			CreatedAt:  date,
		}
		if err := s.snapshots.SaveDailySnapshot(ctx, snap); err != nil {
			s.logger.Error("failed to store daily snapshot", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *Service) exportToSheets(ctx context.Context, date time.Time, report models.InventoryReport) error {
	day := date.Format(dateLayout)

	rows := make([][]interface{}, 0, len(report.Items))
	for _, item := range report.Items {
		rows = append(rows, []interface{}{day, item.Name, item.Quantity})
	}
	if err := s.sheets.AppendRows(ctx, inventoryWriteRange, rows); err != nil {
		return fmt.Errorf("export inventory rows: %w", err)
	}

	movements := s.stock.Movements(dailyExportLimit)
	moveRows := make([][]interface{}, 0, len(movements))
	for _, mv := range movements {
		if mv.At.Format(dateLayout) != day {
			continue
		}
		moveRows = append(moveRows, []interface{}{
			mv.At.Format(time.RFC3339), string(mv.Verb), mv.Item, mv.Quantity, mv.Remaining,
		})
	}
	if err := s.sheets.AppendRows(ctx, movementsWriteRange, moveRows); err != nil {
		return fmt.Errorf("export movement rows: %w", err)
	}

	return nil
}

func itemsToMap(items []models.Item) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.Name] = item.Quantity
	}
	return out
}
