package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// SyncFolders pulls the full remote folder hierarchy for the tenant's
// active grant and reconciles the cached folder collection against it.
func (s *Service) SyncFolders(ctx context.Context, tenantRef string) (*FolderSyncResult, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("folders:%d", t.ID)
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.syncFolders(ctx, t, account)
	})
	if err != nil {
		prometheus.RecordSyncOperation("folders", "error")
		return nil, err
	}
	prometheus.RecordSyncOperation("folders", "ok")
	return value.(*FolderSyncResult), nil
}

func (s *Service) syncFolders(ctx context.Context, t *model.Tenant, account *model.ProviderAccount) (*FolderSyncResult, error) {
	log := logger.FromGoContext(ctx)

	remote, err := s.provider.ListFolders(ctx, account.GrantID)
	if err != nil {
		return nil, err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	cached, err := s.store.Folders.ListByTenant(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	plan := diffByProviderID(remote, cached,
		func(f provider.Folder) string { return f.ID },
		func(f model.Folder) string { return f.ProviderID },
	)

	now := s.now()
	for _, item := range plan.ToAdd {
		row := model.Folder{TenantID: t.ID, ProviderID: item.ID}
		applyFolder(&row, item, now)
		if err := s.store.Folders.Create(ctx, &row); err != nil {
			return nil, err
		}
	}
	for _, pair := range plan.ToUpdate {
		row := pair.Cached
		applyFolder(&row, pair.Remote, now)
		if err := s.store.Folders.Update(ctx, &row); err != nil {
			return nil, err
		}
	}
	for _, row := range plan.ToRemove {
		if err := s.store.Folders.Delete(ctx, t.ID, row.ID); err != nil {
			return nil, err
		}
	}

	converged, err := s.store.Folders.ListByTenant(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	prometheus.RecordReconciledItems("folder", len(plan.ToAdd), len(plan.ToUpdate), len(plan.ToRemove))
	log.Info("Folder sync complete",
		zap.Uint("tenant_id", t.ID),
		zap.Int("added", len(plan.ToAdd)),
		zap.Int("updated", len(plan.ToUpdate)),
		zap.Int("removed", len(plan.ToRemove)))

	return &FolderSyncResult{
		Added:   len(plan.ToAdd),
		Updated: len(plan.ToUpdate),
		Removed: len(plan.ToRemove),
		Folders: converged,
	}, nil
}

// applyFolder overwrites every mapped field from the remote record and
// stamps the sync time.
func applyFolder(row *model.Folder, remote provider.Folder, now time.Time) {
	row.ProviderID = remote.ID
	row.Name = remote.Name
	row.ParentID = remote.ParentID
	row.SyncedAt = now
}
