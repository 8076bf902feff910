package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is owned by the tenants table; this service only reads it.
type Tenant struct {
	id        uuid.UUID
	name      string
	plan      string
	isActive  bool
	createdAt time.Time
}

func Reconstruct(id uuid.UUID, name, plan string, isActive bool, createdAt time.Time) *Tenant {
	return &Tenant{
		id:        id,
		name:      name,
		plan:      plan,
		isActive:  isActive,
		createdAt: createdAt,
	}
}

func (t *Tenant) ID() uuid.UUID        { return t.id }
func (t *Tenant) Name() string         { return t.name }
func (t *Tenant) Plan() string         { return t.plan }
func (t *Tenant) IsActive() bool       { return t.isActive }
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }
