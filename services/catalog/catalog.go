package catalog

import (
	"salonbook/database"
	"salonbook/models"
)

// DefaultServiceCatalog implements ServiceCatalog over the static salon data.
type DefaultServiceCatalog struct {
	services []models.Service
	byID     map[string]*models.Service
}

// NewServiceCatalog indexes the loaded salon data. The catalog is read-only
// after construction, so concurrent reads need no locking.
func NewServiceCatalog(db *database.SalonDB) *DefaultServiceCatalog {
	c := &DefaultServiceCatalog{
		services: db.Services,
		byID:     make(map[string]*models.Service, len(db.Services)),
	}
	for i := range c.services {
		c.byID[c.services[i].ID] = &c.services[i]
	}
	return c
}

func (c *DefaultServiceCatalog) ListServices() []models.Service {
	return c.services
}

func (c *DefaultServiceCatalog) ServiceByID(id string) (*models.Service, error) {
	svc, ok := c.byID[id]
	if !ok {
		return nil, NewUnknownServiceError(id)
	}
	return svc, nil
}

func (c *DefaultServiceCatalog) ResolveDuration(serviceIDs []string) (int, error) {
	if len(serviceIDs) == 0 {
		return 0, NewEmptyBundleError()
	}
	total := 0
	for _, id := range serviceIDs {
		svc, ok := c.byID[id]
		if !ok {
			return 0, NewUnknownServiceError(id)
		}
		total += svc.DurationMin
	}
	return total, nil
}
