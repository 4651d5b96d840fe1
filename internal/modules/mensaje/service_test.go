package mensaje

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

type fixture struct {
	svc     *Service
	db      *gorm.DB
	exp     domain.Expediente
	cliente domain.User
	abogado domain.User
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewService(
		repository.NewMensajeRepository(db),
		repository.NewExpedienteRepository(db),
		NewHub(),
	)

	cliente := domain.User{Email: "ana@x.com", PasswordHash: "x", Nombre: "Ana", Rol: domain.RolCliente, Activo: true}
	abogado := domain.User{Email: "luis@x.com", PasswordHash: "x", Nombre: "Luis", Rol: domain.RolAbogado, Activo: true}
	require.NoError(t, db.Create(&cliente).Error)
	require.NoError(t, db.Create(&abogado).Error)

	exp := domain.Expediente{
		Referencia:        "LSO-2026-001",
		ClienteID:         cliente.ID,
		AbogadoAsignadoID: &abogado.ID,
		FaseActual:        1,
		Progreso:          5,
		Estado:            domain.ExpedienteActivo,
	}
	require.NoError(t, db.Create(&exp).Error)

	return fixture{svc: svc, db: db, exp: exp, cliente: cliente, abogado: abogado}
}

func TestEnviarYLeerHilo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	authCliente := authz.ForRole(domain.RolCliente, f.cliente.ID)
	authAbogado := authz.ForRole(domain.RolAbogado, f.abogado.ID)

	_, err := f.svc.Enviar(ctx, authCliente, EnviarRequest{Texto: "Hola, he subido la vida laboral"})
	require.NoError(t, err)
	_, err = f.svc.Enviar(ctx, authCliente, EnviarRequest{Texto: "¿La habéis recibido?"})
	require.NoError(t, err)

	count, err := f.svc.NoLeidos(ctx, authAbogado, &f.exp.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// fetching the thread flips the read flag in bulk
	hilo, err := f.svc.Hilo(ctx, authAbogado, &f.exp.ID)
	require.NoError(t, err)
	require.Len(t, hilo.Mensajes, 2)
	assert.Equal(t, domain.RolCliente, hilo.Mensajes[0].RolEmisor)

	count, err = f.svc.NoLeidos(ctx, authAbogado, &f.exp.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// the sender's own messages never count as unread for them
	count, err = f.svc.NoLeidos(ctx, authCliente, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestEnviar_TextoVacio(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Enviar(context.Background(), authz.ForRole(domain.RolCliente, f.cliente.ID), EnviarRequest{Texto: "   "})
	assert.ErrorIs(t, err, ErrTextoVacio)
}

func TestHilo_AbogadoAjenoDenegado(t *testing.T) {
	f := setup(t)

	otro := domain.User{Email: "marta@x.com", PasswordHash: "x", Nombre: "Marta", Rol: domain.RolAbogado, Activo: true}
	require.NoError(t, f.db.Create(&otro).Error)

	_, err := f.svc.Hilo(context.Background(), authz.ForRole(domain.RolAbogado, otro.ID), &f.exp.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHilo_ClienteUsaSuExpediente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Enviar(ctx, authz.ForRole(domain.RolAbogado, f.abogado.ID), EnviarRequest{
		ExpedienteID: &f.exp.ID,
		Texto:        "Necesitamos el certificado de antecedentes",
	})
	require.NoError(t, err)

	// clients never name an expediente; the thread is always theirs
	hilo, err := f.svc.Hilo(ctx, authz.ForRole(domain.RolCliente, f.cliente.ID), nil)
	require.NoError(t, err)
	require.Len(t, hilo.Mensajes, 1)
	assert.True(t, hilo.Mensajes[0].Leido)
}

func TestHilo_ClienteSinExpediente(t *testing.T) {
	f := setup(t)

	huerfano := domain.User{Email: "solo@x.com", PasswordHash: "x", Nombre: "Solo", Rol: domain.RolCliente, Activo: true}
	require.NoError(t, f.db.Create(&huerfano).Error)

	_, err := f.svc.Hilo(context.Background(), authz.ForRole(domain.RolCliente, huerfano.ID), nil)
	assert.ErrorIs(t, err, ErrSinExpediente)
}
