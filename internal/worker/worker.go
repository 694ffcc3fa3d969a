package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"basket-service/internal/broker"
	"basket-service/internal/models"
	"basket-service/internal/util"

	"go.uber.org/zap"
)

// ExportWorker consumes OrderPlaced events and writes each order snapshot
// to a JSON file. The file is the downloadable artifact handed to the
// shopper; its name and content layout are stable.
type ExportWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	exportDir    string
	logger       *zap.Logger
}

// NewExportWorker creates a new order export worker
func NewExportWorker(consumer *broker.Consumer, exportDir string) *ExportWorker {
	w := &ExportWorker{
		consumer:  consumer,
		exportDir: exportDir,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ExportWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order export worker", zap.String("dir", w.exportDir))

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ExportWorker) Stop() error {
	w.logger.Info("Stopping order export worker")
	return w.consumer.Close()
}

func (w *ExportWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	path, err := w.WriteSnapshot(&event.Snapshot)
	if err != nil {
		util.OrdersExportFailedTotal.Inc()
		w.logger.Error("Failed to export order",
			zap.String("order_ref", event.OrderRef),
			zap.Error(err))
		return err
	}

	util.OrdersExportedTotal.Inc()
	w.logger.Info("Order exported",
		zap.String("order_ref", event.OrderRef),
		zap.String("path", path))
	return nil
}

// WriteSnapshot serializes one order snapshot to the export directory and
// returns the file path. Files are named pedido-<unix millis>.json.
func (w *ExportWorker) WriteSnapshot(snapshot *models.OrderSnapshot) (string, error) {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	name := fmt.Sprintf("pedido-%d.json", snapshot.CreatedAt.UnixMilli())
	path := filepath.Join(w.exportDir, name)

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write order snapshot: %w", err)
	}
	return path, nil
}
