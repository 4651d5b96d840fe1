package authz

import (
	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

// Authorizer narrows every expediente-rooted query to what the caller's
// role may see. One variant per role keeps the visibility matrix in a
// single place instead of scattered string comparisons.
type Authorizer interface {
	// ScopeExpedientes restricts a query over the expedientes table.
	ScopeExpedientes(q *gorm.DB) *gorm.DB
	// CanView reports whether an already-loaded expediente is visible.
	// A false result must map to 403, not 404: the row exists.
	CanView(exp *domain.Expediente) bool
	Rol() domain.Rol
	UserID() int64
}

func ForRole(rol domain.Rol, userID int64) Authorizer {
	switch rol {
	case domain.RolAdmin:
		return AdminAuthorizer{userID: userID}
	case domain.RolAbogado:
		return AbogadoAuthorizer{userID: userID}
	default:
		return ClienteAuthorizer{userID: userID}
	}
}

type AdminAuthorizer struct {
	userID int64
}

func (a AdminAuthorizer) ScopeExpedientes(q *gorm.DB) *gorm.DB { return q }
func (a AdminAuthorizer) CanView(*domain.Expediente) bool      { return true }
func (a AdminAuthorizer) Rol() domain.Rol                      { return domain.RolAdmin }
func (a AdminAuthorizer) UserID() int64                        { return a.userID }

type AbogadoAuthorizer struct {
	userID int64
}

func (a AbogadoAuthorizer) ScopeExpedientes(q *gorm.DB) *gorm.DB {
	return q.Where("abogado_asignado_id = ?", a.userID)
}

func (a AbogadoAuthorizer) CanView(exp *domain.Expediente) bool {
	return exp.AbogadoAsignadoID != nil && *exp.AbogadoAsignadoID == a.userID
}

func (a AbogadoAuthorizer) Rol() domain.Rol { return domain.RolAbogado }
func (a AbogadoAuthorizer) UserID() int64   { return a.userID }

type ClienteAuthorizer struct {
	userID int64
}

func (a ClienteAuthorizer) ScopeExpedientes(q *gorm.DB) *gorm.DB {
	return q.Where("cliente_id = ?", a.userID)
}

func (a ClienteAuthorizer) CanView(exp *domain.Expediente) bool {
	return exp.ClienteID == a.userID
}

func (a ClienteAuthorizer) Rol() domain.Rol { return domain.RolCliente }
func (a ClienteAuthorizer) UserID() int64   { return a.userID }
