package expediente

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

type recordingMailer struct {
	sends []string
	fail  bool
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.sends = append(m.sends, to)
	if m.fail {
		return assert.AnError
	}
	return nil
}

type fixture struct {
	db      *gorm.DB
	service *Service
	audit   *repository.AuditRepository
	mailer  *recordingMailer
	cliente domain.User
	abogado domain.User
	exp     domain.Expediente
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	expRepo := repository.NewExpedienteRepository(db)
	docRepo := repository.NewDocumentoRepository(db)
	checkRepo := repository.NewChecklistRepository(db)
	msgRepo := repository.NewMensajeRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	m := &recordingMailer{}
	svc := NewService(expRepo, docRepo, checkRepo, msgRepo, userRepo, auditRepo, m)

	cliente := domain.User{Email: "ana@x.com", PasswordHash: "x", Nombre: "Ana", Rol: domain.RolCliente, Activo: true}
	require.NoError(t, db.Create(&cliente).Error)
	abogado := domain.User{Email: "letrado@x.com", PasswordHash: "x", Nombre: "Letrado", Rol: domain.RolAbogado, Activo: true}
	require.NoError(t, db.Create(&abogado).Error)

	exp := domain.Expediente{
		Referencia: "LSO-2026-001",
		ClienteID:  cliente.ID,
		FaseActual: 1,
		Progreso:   5,
		Estado:     domain.ExpedienteActivo,
	}
	require.NoError(t, db.Create(&exp).Error)

	return &fixture{db: db, service: svc, audit: auditRepo, mailer: m, cliente: cliente, abogado: abogado, exp: exp}
}

func TestCambiarFase_DerivaPorcentaje(t *testing.T) {
	f := setup(t)

	for _, tc := range []struct {
		fase     int
		progreso int
	}{
		{3, 30},
		{7, 70},
		{5, 50},
	} {
		result, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, tc.fase, "127.0.0.1", "test")
		require.NoError(t, err)
		assert.Equal(t, tc.fase, result.Expediente.FaseActual)
		assert.Equal(t, tc.progreso, result.Expediente.Progreso)
		assert.Equal(t, domain.ExpedienteActivo, result.Expediente.Estado)
	}
}

func TestCambiarFase_FaseInvalida(t *testing.T) {
	f := setup(t)

	for _, fase := range []int{0, 11, -3} {
		_, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, fase, "", "")
		assert.ErrorIs(t, err, domain.ErrFaseInvalida)
	}

	// no mutation happened
	var exp domain.Expediente
	require.NoError(t, f.db.First(&exp, f.exp.ID).Error)
	assert.Equal(t, 1, exp.FaseActual)
	assert.Equal(t, 5, exp.Progreso)
}

func TestCambiarFase_CierreEnFaseFinal(t *testing.T) {
	f := setup(t)

	result, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, 10, "", "")
	require.NoError(t, err)
	assert.Equal(t, 100, result.Expediente.Progreso)
	assert.Equal(t, domain.ExpedienteCerrado, result.Expediente.Estado)
	require.NotNil(t, result.Expediente.FechaCierre)
}

func TestCambiarFase_NoReabreExpedienteCerrado(t *testing.T) {
	f := setup(t)

	_, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, 10, "", "")
	require.NoError(t, err)

	// an admin moves a closed case backwards: allowed, but it stays closed
	result, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, 4, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Expediente.FaseActual)
	assert.Equal(t, 40, result.Expediente.Progreso)
	assert.Equal(t, domain.ExpedienteCerrado, result.Expediente.Estado)
	assert.NotNil(t, result.Expediente.FechaCierre)
}

func TestCambiarFase_IdempotenteConAuditoria(t *testing.T) {
	f := setup(t)

	_, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, 5, "", "")
	require.NoError(t, err)
	result, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, 5, "", "")
	require.NoError(t, err)

	assert.Equal(t, 5, result.Expediente.FaseActual)
	assert.Equal(t, 50, result.Expediente.Progreso)

	count, err := f.audit.CountByExpediente(context.Background(), f.exp.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCambiarFase_EmailFallidoNoBloquea(t *testing.T) {
	f := setup(t)
	f.mailer.fail = true

	result, err := f.service.CambiarFase(context.Background(), 1, f.exp.ID, 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, 5, result.Expediente.FaseActual)
	assert.Equal(t, []string{"ana@x.com"}, f.mailer.sends)

	// the phase mutation and the audit row survived the failed send
	var exp domain.Expediente
	require.NoError(t, f.db.First(&exp, f.exp.ID).Error)
	assert.Equal(t, 5, exp.FaseActual)
	count, err := f.audit.CountByExpediente(context.Background(), f.exp.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDetalle_ForbiddenFrenteANotFound(t *testing.T) {
	f := setup(t)

	otroAbogado := authz.ForRole(domain.RolAbogado, f.abogado.ID)

	// the row exists but is not assigned to this lawyer
	_, err := f.service.Detalle(context.Background(), otroAbogado, f.exp.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// a missing row is a plain not-found
	_, err = f.service.Detalle(context.Background(), otroAbogado, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	admin := authz.ForRole(domain.RolAdmin, 1)
	exp, err := f.service.Detalle(context.Background(), admin, f.exp.ID)
	require.NoError(t, err)
	assert.Equal(t, f.exp.Referencia, exp.Referencia)
}

func TestAsignarAbogado(t *testing.T) {
	f := setup(t)

	exp, err := f.service.AsignarAbogado(context.Background(), 1, f.exp.ID, &f.abogado.ID, "", "")
	require.NoError(t, err)
	require.NotNil(t, exp.AbogadoAsignadoID)
	assert.Equal(t, f.abogado.ID, *exp.AbogadoAsignadoID)

	// assigning a cliente as lawyer is rejected
	_, err = f.service.AsignarAbogado(context.Background(), 1, f.exp.ID, &f.cliente.ID, "", "")
	assert.ErrorIs(t, err, ErrAbogadoInvalido)

	// clearing the assignment
	exp, err = f.service.AsignarAbogado(context.Background(), 1, f.exp.ID, nil, "", "")
	require.NoError(t, err)
	assert.Nil(t, exp.AbogadoAsignadoID)
}

func TestReabrir(t *testing.T) {
	f := setup(t)

	_, err := f.service.Reabrir(context.Background(), 1, f.exp.ID, "", "")
	assert.ErrorIs(t, err, ErrNoCerrado)

	_, err = f.service.CambiarFase(context.Background(), 1, f.exp.ID, 10, "", "")
	require.NoError(t, err)

	exp, err := f.service.Reabrir(context.Background(), 1, f.exp.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ExpedienteActivo, exp.Estado)
	assert.Nil(t, exp.FechaCierre)
}
