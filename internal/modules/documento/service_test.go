package documento

import (
	"context"
	"testing"

	"deudasacero/internal/database"
	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDocs(t *testing.T) (*Service, *gorm.DB, domain.Expediente, domain.User) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewService(
		repository.NewDocumentoRepository(db),
		repository.NewChecklistRepository(db),
		repository.NewExpedienteRepository(db),
		repository.NewAuditRepository(db),
	)

	cliente := domain.User{Email: "ana@x.com", PasswordHash: "x", Nombre: "Ana", Rol: domain.RolCliente, Activo: true}
	require.NoError(t, db.Create(&cliente).Error)
	exp := domain.Expediente{Referencia: "LSO-2026-001", ClienteID: cliente.ID, FaseActual: 1, Progreso: 5, Estado: domain.ExpedienteActivo}
	require.NoError(t, db.Create(&exp).Error)

	items := []domain.ChecklistItem{
		{ExpedienteID: exp.ID, Nombre: "Certificado de empadronamiento", Orden: 1},
		{ExpedienteID: exp.ID, Nombre: "Certificado de antecedentes penales", Orden: 2},
		{ExpedienteID: exp.ID, Nombre: "Vida laboral actualizada", Orden: 3},
	}
	require.NoError(t, db.Create(&items).Error)

	return svc, db, exp, cliente
}

func TestSubir_VinculaSoloElPrimerItem(t *testing.T) {
	svc, db, exp, cliente := setupDocs(t)
	auth := authz.ForRole(domain.RolCliente, cliente.ID)

	doc, err := svc.Subir(context.Background(), auth, SubirRequest{
		Nombre:    "Certificado del padrón",
		Tipo:      "certificado",
		Contenido: "YmFzZTY0",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentoSubido, doc.Estado)

	var items []domain.ChecklistItem
	require.NoError(t, db.Where("expediente_id = ?", exp.ID).Order("orden").Find(&items).Error)

	require.NotNil(t, items[0].DocumentoVinculado)
	assert.Equal(t, doc.ID, *items[0].DocumentoVinculado)
	assert.Nil(t, items[1].DocumentoVinculado)
	assert.Nil(t, items[2].DocumentoVinculado)
}

func TestSubir_SinCoincidenciaDejaChecklistIntacto(t *testing.T) {
	svc, db, exp, cliente := setupDocs(t)
	auth := authz.ForRole(domain.RolCliente, cliente.ID)

	_, err := svc.Subir(context.Background(), auth, SubirRequest{
		Nombre:    "Escrituras de la vivienda",
		Tipo:      "escrituras",
		Contenido: "YmFzZTY0",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.ChecklistItem{}).
		Where("expediente_id = ? AND documento_vinculado_id IS NOT NULL", exp.ID).
		Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubir_ClienteNoPuedeNombrarOtroExpediente(t *testing.T) {
	svc, db, _, cliente := setupDocs(t)

	otro := domain.User{Email: "otro@x.com", PasswordHash: "x", Nombre: "Otro", Rol: domain.RolCliente, Activo: true}
	require.NoError(t, db.Create(&otro).Error)
	ajeno := domain.Expediente{Referencia: "LSO-2026-002", ClienteID: otro.ID, FaseActual: 1, Progreso: 5, Estado: domain.ExpedienteActivo}
	require.NoError(t, db.Create(&ajeno).Error)

	auth := authz.ForRole(domain.RolCliente, cliente.ID)

	// the expedienteId in the body is ignored for clients: the upload
	// lands on their own case
	doc, err := svc.Subir(context.Background(), auth, SubirRequest{
		ExpedienteID: &ajeno.ID,
		Nombre:       "DNI",
		Tipo:         "dni",
		Contenido:    "YmFzZTY0",
	})
	require.NoError(t, err)
	require.NotNil(t, doc.ExpedienteID)
	assert.NotEqual(t, ajeno.ID, *doc.ExpedienteID)
}

func TestSubir_ContenidoVacio(t *testing.T) {
	svc, _, _, cliente := setupDocs(t)
	auth := authz.ForRole(domain.RolCliente, cliente.ID)

	_, err := svc.Subir(context.Background(), auth, SubirRequest{
		Nombre:    "DNI",
		Tipo:      "dni",
		Contenido: "   ",
	})
	assert.ErrorIs(t, err, ErrContenidoVacio)
}

func TestMarcarNoAplica_AbogadoAjenoDenegado(t *testing.T) {
	svc, db, exp, _ := setupDocs(t)

	abogado := domain.User{Email: "letrado@x.com", PasswordHash: "x", Nombre: "Letrado", Rol: domain.RolAbogado, Activo: true}
	require.NoError(t, db.Create(&abogado).Error)

	var item domain.ChecklistItem
	require.NoError(t, db.Where("expediente_id = ? AND orden = 1", exp.ID).First(&item).Error)

	auth := authz.ForRole(domain.RolAbogado, abogado.ID)
	err := svc.MarcarNoAplica(context.Background(), auth, item.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, db.First(&item, item.ID).Error)
	assert.False(t, item.NoAplica)
}

func TestMarcarNoAplica_AbogadoAsignado(t *testing.T) {
	svc, db, exp, _ := setupDocs(t)

	abogado := domain.User{Email: "letrado@x.com", PasswordHash: "x", Nombre: "Letrado", Rol: domain.RolAbogado, Activo: true}
	require.NoError(t, db.Create(&abogado).Error)
	require.NoError(t, db.Model(&domain.Expediente{}).Where("id = ?", exp.ID).
		Update("abogado_asignado_id", abogado.ID).Error)

	var item domain.ChecklistItem
	require.NoError(t, db.Where("expediente_id = ? AND orden = 1", exp.ID).First(&item).Error)

	auth := authz.ForRole(domain.RolAbogado, abogado.ID)
	require.NoError(t, svc.MarcarNoAplica(context.Background(), auth, item.ID, true))

	require.NoError(t, db.First(&item, item.ID).Error)
	assert.True(t, item.NoAplica)
}

func TestMarcarNoAplica_ClienteSoloSuExpediente(t *testing.T) {
	svc, db, _, cliente := setupDocs(t)

	otro := domain.User{Email: "otro@x.com", PasswordHash: "x", Nombre: "Otro", Rol: domain.RolCliente, Activo: true}
	require.NoError(t, db.Create(&otro).Error)
	ajeno := domain.Expediente{Referencia: "LSO-2026-002", ClienteID: otro.ID, FaseActual: 1, Progreso: 5, Estado: domain.ExpedienteActivo}
	require.NoError(t, db.Create(&ajeno).Error)
	itemAjeno := domain.ChecklistItem{ExpedienteID: ajeno.ID, Nombre: "DNI o NIE en vigor", Orden: 1}
	require.NoError(t, db.Create(&itemAjeno).Error)

	auth := authz.ForRole(domain.RolCliente, cliente.ID)
	err := svc.MarcarNoAplica(context.Background(), auth, itemAjeno.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRevisar_EstadoInvalido(t *testing.T) {
	svc, _, _, cliente := setupDocs(t)
	auth := authz.ForRole(domain.RolAdmin, cliente.ID)

	_, err := svc.Revisar(context.Background(), auth, 1, RevisarRequest{Estado: "subido"}, "", "")
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}
