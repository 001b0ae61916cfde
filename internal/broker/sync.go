package broker

import (
	"context"
	"time"

	"github.com/MikeSquared-Agency/Placement/internal/metrics"
)

func (b *Broker) syncLoop(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.SyncInterval())
	defer ticker.Stop()

	b.syncInventory(ctx)
	for {
		select {
		case <-b.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.syncInventory(ctx)
		}
	}
}

// syncInventory copies the cluster manager's usage snapshots into the store.
// Invalid snapshots are skipped so one bad node does not block the rest.
func (b *Broker) syncInventory(ctx context.Context) {
	nodes, err := b.inventory.ListNodes(ctx)
	if err != nil {
		b.metrics.InventorySync(metrics.OutcomeError)
		b.logger.Error("failed to list inventory nodes", "error", err)
		return
	}

	var stored int
	for _, n := range nodes {
		if _, err := b.RecordNode(ctx, n, "inventory"); err != nil {
			b.logger.Warn("skipping inventory node", "node", n.Name, "error", err)
			continue
		}
		stored++
	}
	b.metrics.InventorySync(metrics.OutcomeSuccess)
	b.logger.Info("inventory synced", "nodes", len(nodes), "stored", stored)
}
