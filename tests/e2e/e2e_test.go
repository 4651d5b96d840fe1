package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"deudasacero/internal/database"
	"deudasacero/internal/domain"
	"deudasacero/internal/middleware"
	"deudasacero/internal/modules/admin"
	"deudasacero/internal/modules/auth"
	"deudasacero/internal/modules/documento"
	"deudasacero/internal/modules/expediente"
	"deudasacero/internal/modules/facturacion"
	"deudasacero/internal/modules/firma"
	"deudasacero/internal/modules/mensaje"
	jwtsvc "deudasacero/internal/pkg/jwt"
	"deudasacero/internal/pkg/mailer"
	"deudasacero/internal/repository"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test_secret_key_32_characters_min"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	expedienteRepo := repository.NewExpedienteRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	mensajeRepo := repository.NewMensajeRepository(db)
	facturacionRepo := repository.NewFacturacionRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	firmaRepo := repository.NewFirmaRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	jwtService := jwtsvc.New(testSecret, 7*24*time.Hour)
	m := mailer.NewDevConsoleMailer()

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService, m), jwtService.TTL())
	expedienteHandler := expediente.NewHandler(expediente.NewService(
		expedienteRepo, documentoRepo, checklistRepo, mensajeRepo, userRepo, auditRepo, m))
	documentoHandler := documento.NewHandler(documento.NewService(
		documentoRepo, checklistRepo, expedienteRepo, auditRepo))
	mensajeHandler := mensaje.NewHandler(mensaje.NewService(mensajeRepo, expedienteRepo, mensaje.NewHub()))
	facturacionHandler := facturacion.NewHandler(facturacion.NewService(
		facturacionRepo, facturaRepo, expedienteRepo, auditRepo))
	firmaHandler := firma.NewHandler(firma.NewService(firmaRepo, expedienteRepo))
	adminHandler := admin.NewHandler(admin.NewService(
		userRepo, expedienteRepo, checklistRepo, auditRepo, m, true))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)
	adminHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.SessionAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		expedienteHandler.RegisterRoutes(protected)
		documentoHandler.RegisterRoutes(protected)
		mensajeHandler.RegisterRoutes(protected)
		facturacionHandler.RegisterRoutes(protected)
		firmaHandler.RegisterRoutes(protected)
		adminHandler.RegisterRoutes(protected)
	}

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService}
}

func (s *E2ETestSuite) crearUsuario(t *testing.T, email, password, nombre string, rol domain.Rol) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	u := domain.User{Email: email, PasswordHash: string(hash), Nombre: nombre, Rol: rol, Activo: true}
	require.NoError(t, s.db.Create(&u).Error)
	return u
}

func (s *E2ETestSuite) tokenFor(t *testing.T, u domain.User) string {
	t.Helper()
	token, err := s.jwtService.GenerateToken(u.ID, u.Email, u.Nombre, string(u.Rol))
	require.NoError(t, err)
	return token
}

// staleToken signs a session whose embedded last_access is already
// older than the lawyer inactivity cutoff.
func staleToken(t *testing.T, u domain.User, age time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwtsvc.Claims{
		UserID:     u.ID,
		Email:      u.Email,
		Nombre:     u.Nombre,
		Rol:        string(u.Rol),
		LastAccess: now.Add(-age).Unix(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwtlib.NewNumericDate(now.Add(-age)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "unparseable body: %s", w.Body.String())
	return &resp
}

func TestFlow_RegistroYLogin(t *testing.T) {
	suite := setupTestSuite(t)

	w := suite.makeRequest(t, "POST", "/api/v1/auth/registro", map[string]interface{}{
		"nombre":   "Pepe Ruiz",
		"email":    "pepe@test.com",
		"password": "Secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// same email again must fail without creating a second row
	w = suite.makeRequest(t, "POST", "/api/v1/auth/registro", map[string]interface{}{
		"nombre":   "Pepe Impostor",
		"email":    "pepe@test.com",
		"password": "Secret2",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", parseResponse(t, w).Error.Code)

	var count int64
	require.NoError(t, suite.db.Model(&domain.User{}).Where("email = ?", "pepe@test.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// short password rejected at binding
	w = suite.makeRequest(t, "POST", "/api/v1/auth/registro", map[string]interface{}{
		"nombre":   "Corta",
		"email":    "corta@test.com",
		"password": "abc",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "pepe@test.com",
		"password": "Secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sessionSet bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			sessionSet = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, sessionSet, "login must set the session cookie")

	w = suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "pepe@test.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFlow_AltaClienteYFases(t *testing.T) {
	suite := setupTestSuite(t)
	adminUser := suite.crearUsuario(t, "admin@test.com", "admin123", "Admin", domain.RolAdmin)
	adminToken := suite.tokenFor(t, adminUser)

	// admin onboards Ana with a case in one call
	w := suite.makeRequest(t, "POST", "/api/v1/admin/usuarios", map[string]interface{}{
		"nombre":          "Ana",
		"email":           "ana@x.com",
		"password":        "Secret1",
		"rol":             "cliente",
		"crearExpediente": true,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	exp, ok := resp.Data["expediente"].(map[string]interface{})
	require.True(t, ok, "response must carry the new expediente")

	assert.Regexp(t, `^LSO-\d{4}-\d{3}$`, exp["referencia"])
	assert.EqualValues(t, 1, exp["faseActual"])
	assert.EqualValues(t, 5, exp["progreso"])
	expedienteID := int64(exp["id"].(float64))

	// Ana logs in and sees her case with its 11 checklist items
	w = suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "ana@x.com",
		"password": "Secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var anaToken string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			anaToken = c.Value
		}
	}
	require.NotEmpty(t, anaToken)

	w = suite.makeRequest(t, "GET", "/api/v1/checklist", nil, anaToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items, ok := parseResponse(t, w).Data["checklist"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 11)

	// admin moves the case to phase 5
	w = suite.makeRequest(t, "PATCH", "/api/v1/expedientes/"+itoa(expedienteID)+"/fase",
		map[string]interface{}{"fase": 5}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var caso domain.Expediente
	require.NoError(t, suite.db.First(&caso, expedienteID).Error)
	assert.Equal(t, 5, caso.FaseActual)
	assert.Equal(t, 50, caso.Progreso)
	assert.Equal(t, domain.ExpedienteActivo, caso.Estado)

	var audits int64
	require.NoError(t, suite.db.Model(&domain.AuditLog{}).
		Where("expediente_id = ? AND accion = ?", expedienteID, "cambio_fase").
		Count(&audits).Error)
	assert.EqualValues(t, 1, audits)

	// out-of-range phase leaves everything untouched
	w = suite.makeRequest(t, "PATCH", "/api/v1/expedientes/"+itoa(expedienteID)+"/fase",
		map[string]interface{}{"fase": 11}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, suite.db.First(&caso, expedienteID).Error)
	assert.Equal(t, 5, caso.FaseActual)
}

func TestFlow_ScopingPorRol(t *testing.T) {
	suite := setupTestSuite(t)

	cliente := suite.crearUsuario(t, "jose@test.com", "cliente123", "José", domain.RolCliente)
	intruso := suite.crearUsuario(t, "otro@test.com", "cliente123", "Otro", domain.RolCliente)
	abogado := suite.crearUsuario(t, "marta@test.com", "abogado123", "Marta", domain.RolAbogado)

	exp := domain.Expediente{Referencia: "LSO-2026-001", ClienteID: cliente.ID, FaseActual: 1, Progreso: 5, Estado: domain.ExpedienteActivo}
	require.NoError(t, suite.db.Create(&exp).Error)

	// the owner sees their case through the singular view
	w := suite.makeRequest(t, "GET", "/api/v1/expediente", nil, suite.tokenFor(t, cliente))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// another client cannot reach the detail route at all
	w = suite.makeRequest(t, "GET", "/api/v1/expedientes/"+itoa(exp.ID), nil, suite.tokenFor(t, intruso))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// an unassigned lawyer gets Forbidden, not NotFound
	w = suite.makeRequest(t, "GET", "/api/v1/expedientes/"+itoa(exp.ID), nil, suite.tokenFor(t, abogado))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", parseResponse(t, w).Error.Code)

	// once assigned, the same lawyer sees it
	require.NoError(t, suite.db.Model(&exp).Update("abogado_asignado_id", abogado.ID).Error)
	w = suite.makeRequest(t, "GET", "/api/v1/expedientes/"+itoa(exp.ID), nil, suite.tokenFor(t, abogado))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// no session at all
	w = suite.makeRequest(t, "GET", "/api/v1/expediente", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFlow_CaducidadSesionAbogado(t *testing.T) {
	suite := setupTestSuite(t)

	abogado := suite.crearUsuario(t, "marta@test.com", "abogado123", "Marta", domain.RolAbogado)
	cliente := suite.crearUsuario(t, "jose@test.com", "cliente123", "José", domain.RolCliente)
	adminUser := suite.crearUsuario(t, "admin@test.com", "admin123", "Admin", domain.RolAdmin)

	exp := domain.Expediente{Referencia: "LSO-2026-001", ClienteID: cliente.ID, FaseActual: 1, Progreso: 5, Estado: domain.ExpedienteActivo}
	require.NoError(t, suite.db.Create(&exp).Error)

	stale := 31 * time.Minute

	w := suite.makeRequest(t, "GET", "/api/v1/auth/me", nil, staleToken(t, abogado, stale))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_EXPIRED", parseResponse(t, w).Error.Code)

	// the cutoff is lawyer-specific: equally old client and admin
	// sessions stay valid
	w = suite.makeRequest(t, "GET", "/api/v1/auth/me", nil, staleToken(t, cliente, stale))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = suite.makeRequest(t, "GET", "/api/v1/auth/me", nil, staleToken(t, adminUser, stale))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// a fresh lawyer session works
	w = suite.makeRequest(t, "GET", "/api/v1/auth/me", nil, suite.tokenFor(t, abogado))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestFlow_DocumentosYChecklist(t *testing.T) {
	suite := setupTestSuite(t)

	cliente := suite.crearUsuario(t, "jose@test.com", "cliente123", "José", domain.RolCliente)
	exp := domain.Expediente{Referencia: "LSO-2026-001", ClienteID: cliente.ID, FaseActual: 2, Progreso: 20, Estado: domain.ExpedienteActivo}
	require.NoError(t, suite.db.Create(&exp).Error)
	require.NoError(t, suite.db.Create(&domain.ChecklistItem{
		ExpedienteID: exp.ID, Nombre: "Vida laboral actualizada", Orden: 1, Obligatorio: true,
	}).Error)

	token := suite.tokenFor(t, cliente)

	w := suite.makeRequest(t, "POST", "/api/v1/documentos", map[string]interface{}{
		"nombre":    "Mi vida laboral",
		"tipo":      "vida laboral",
		"contenido": "YmFzZTY0",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item domain.ChecklistItem
	require.NoError(t, suite.db.Where("expediente_id = ?", exp.ID).First(&item).Error)
	assert.NotNil(t, item.DocumentoVinculado)

	// content is required for an upload
	w = suite.makeRequest(t, "POST", "/api/v1/documentos", map[string]interface{}{
		"nombre": "Sin contenido",
		"tipo":   "dni",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlow_Health(t *testing.T) {
	suite := setupTestSuite(t)

	w := suite.makeRequest(t, "GET", "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var health struct {
		Status string `json:"status"`
		Checks struct {
			Database struct {
				Connected   bool `json:"connected"`
				TablesExist bool `json:"tablesExist"`
			} `json:"database"`
			JWT struct {
				Configured bool `json:"configured"`
			} `json:"jwt"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.Checks.Database.Connected)
	assert.True(t, health.Checks.Database.TablesExist)
	assert.True(t, health.Checks.JWT.Configured)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
