package tenant

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/store"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
)

// ErrNotConnected means the tenant has no active provider grant; sync and
// mutation operations cannot proceed without one.
var ErrNotConnected = errors.New("tenant is not connected to a provider")

// Resolver maps tenant references onto tenant rows and their grants.
type Resolver struct {
	tenants store.TenantStore
}

// NewResolver builds a Resolver on top of the tenant store.
func NewResolver(tenants store.TenantStore) *Resolver {
	return &Resolver{tenants: tenants}
}

// Resolve maps an id or slug to the tenant row, auto-provisioning an
// active tenant on first reference.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*model.Tenant, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		tenant, err := r.tenants.GetByID(ctx, uint(id))
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// Numeric refs that match no row fall through to slug handling so
		// a tenant named "42" still resolves.
	}

	tenant, err := r.tenants.GetBySlug(ctx, ref)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	created := &model.Tenant{Slug: ref, Name: ref, Active: true, Plan: "free"}
	if err := r.tenants.Create(ctx, created); err != nil {
		return nil, err
	}
	logger.FromGoContext(ctx).Info("Auto-provisioned tenant",
		zap.String("slug", created.Slug),
		zap.Uint("tenant_id", created.ID))
	return created, nil
}

// ActiveAccount returns the grant sync operations should target: the named
// account when accountName is set, otherwise the primary active account
// (falling back to the first active one).
func (r *Resolver) ActiveAccount(ctx context.Context, tenantID uint, accountName string) (*model.ProviderAccount, error) {
	accounts, err := r.tenants.ActiveAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNotConnected
	}
	if accountName != "" {
		for i := range accounts {
			if accounts[i].Email == accountName || accounts[i].Provider == accountName {
				return &accounts[i], nil
			}
		}
		return nil, ErrNotConnected
	}
	// ActiveAccounts orders primary-first.
	return &accounts[0], nil
}
