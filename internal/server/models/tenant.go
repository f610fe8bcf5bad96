package models

import wire "github.com/dmitrijs2005/salonadmin/internal/client/models"

// Tenant rows are stored exactly as they travel on the wire.
type Tenant = wire.Tenant
