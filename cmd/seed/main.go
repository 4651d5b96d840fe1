package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"deudasacero/internal/database"
	"deudasacero/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "deudasacero.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data in FK-safe order
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM audit_logs")
	db.Exec("DELETE FROM firmas")
	db.Exec("DELETE FROM facturas")
	db.Exec("DELETE FROM pagos")
	db.Exec("DELETE FROM facturaciones")
	db.Exec("DELETE FROM mensajes")
	db.Exec("DELETE FROM checklist_items")
	db.Exec("DELETE FROM documentos")
	db.Exec("DELETE FROM deudas")
	db.Exec("DELETE FROM expedientes")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	admin := crearUser(db, "admin@deudasacero.es", "admin123", "Administración", domain.RolAdmin, "+34 600 000 001")
	log.Println("Admin created: admin@deudasacero.es / admin123")

	abogado := crearUser(db, "letrado@deudasacero.es", "abogado123", "Marta Rivas", domain.RolAbogado, "+34 600 000 002")

	cliente1 := crearUser(db, "jose@cliente.es", "cliente123", "José Morales", domain.RolCliente, "+34 600 000 003")
	cliente2 := crearUser(db, "carmen@cliente.es", "cliente123", "Carmen Vidal", domain.RolCliente, "+34 600 000 004")

	// ================== EXPEDIENTES ==================
	log.Println("Creating expedientes...")

	exp1 := domain.Expediente{
		Referencia:        fmt.Sprintf("LSO-%d-001", time.Now().Year()),
		ClienteID:         cliente1.ID,
		AbogadoAsignadoID: &abogado.ID,
		Juzgado:           "Juzgado de lo Mercantil nº 3 de Madrid",
		TipoProcedimiento: "concurso consecutivo",
		FaseActual:        4,
		Progreso:          40,
		Estado:            domain.ExpedienteActivo,
	}
	db.Create(&exp1)

	exp2 := domain.Expediente{
		Referencia: fmt.Sprintf("LSO-%d-002", time.Now().Year()),
		ClienteID:  cliente2.ID,
		FaseActual: 1,
		Progreso:   5,
		Estado:     domain.ExpedienteActivo,
	}
	db.Create(&exp2)

	db.Create(&[]domain.Deuda{
		{ExpedienteID: exp1.ID, Tipo: domain.DeudaFinanciera, Importe: 18500, Acreedor: "Banco Nervión", Descripcion: "Préstamo personal"},
		{ExpedienteID: exp1.ID, Tipo: domain.DeudaFinanciera, Importe: 6200, Acreedor: "Financiera Rápida", Descripcion: "Tarjeta revolving"},
		{ExpedienteID: exp1.ID, Tipo: domain.DeudaPublica, Importe: 3100, Acreedor: "AEAT"},
		{ExpedienteID: exp2.ID, Tipo: domain.DeudaFinanciera, Importe: 9400, Acreedor: "Banco Nervión"},
		{ExpedienteID: exp2.ID, Tipo: domain.DeudaProveedores, Importe: 2750, Acreedor: "Suministros López"},
	})

	// ================== CHECKLISTS ==================
	log.Println("Creating checklists...")

	crearChecklist(db, exp1.ID)
	crearChecklist(db, exp2.ID)

	// exp1 is already in a judicial phase: two extra items
	db.Create(&[]domain.ChecklistItem{
		{ExpedienteID: exp1.ID, Nombre: "Decreto de admisión a trámite", Orden: 12, Obligatorio: false},
		{ExpedienteID: exp1.ID, Nombre: "Informe del administrador concursal", Orden: 13, Obligatorio: false},
	})

	// ================== DOCUMENTOS Y MENSAJES ==================
	log.Println("Creating documentos and mensajes...")

	contenido := base64.StdEncoding.EncodeToString([]byte("documento de ejemplo"))
	doc := domain.Documento{
		ExpedienteID:  &exp1.ID,
		Nombre:        "Vida laboral",
		Tipo:          "vida laboral",
		Estado:        domain.DocumentoRevisado,
		SubidoPor:     cliente1.ID,
		NombreFichero: "vida-laboral.pdf",
		Contenido:     contenido,
		SubidoEn:      time.Now().AddDate(0, 0, -12),
	}
	db.Create(&doc)
	db.Model(&domain.ChecklistItem{}).
		Where("expediente_id = ? AND nombre LIKE ?", exp1.ID, "%Vida laboral%").
		Update("documento_vinculado_id", doc.ID)

	db.Create(&[]domain.Mensaje{
		{ExpedienteID: exp1.ID, UserID: cliente1.ID, RolEmisor: domain.RolCliente, Texto: "He subido la vida laboral, ¿falta algo más?", Leido: true, EnviadoEn: time.Now().AddDate(0, 0, -11)},
		{ExpedienteID: exp1.ID, UserID: abogado.ID, RolEmisor: domain.RolAbogado, Texto: "Recibida. Nos falta el certificado de antecedentes penales.", EnviadoEn: time.Now().AddDate(0, 0, -10)},
	})

	// ================== FACTURACIÓN ==================
	log.Println("Creating facturación...")

	billing := domain.Facturacion{
		ExpedienteID:       exp1.ID,
		ImportePresupuesto: 1500,
		ImporteFacturado:   500,
		Estado:             domain.FacturacionParcial,
		MetodoPago:         "transferencia",
	}
	db.Create(&billing)

	fechaPago := time.Now().AddDate(0, -1, 0)
	db.Create(&[]domain.Pago{
		{FacturacionID: billing.ID, Concepto: "Provisión de fondos", Importe: 500, Estado: domain.PagoPagado, FechaPago: &fechaPago},
		{FacturacionID: billing.ID, Concepto: "Segunda cuota", Importe: 500, Estado: domain.PagoPendiente},
		{FacturacionID: billing.ID, Concepto: "Cuota final", Importe: 500, Estado: domain.PagoPendiente},
	})

	db.Create(&domain.AuditLog{
		UserID:       admin.ID,
		ExpedienteID: &exp1.ID,
		Accion:       "cambio_fase",
		Descripcion:  "fase 3 -> 4 (40%)",
	})

	log.Println("Seed completed")
}

func crearUser(db *gorm.DB, email, password, nombre string, rol domain.Rol, telefono string) domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Nombre:       nombre,
		Rol:          rol,
		Telefono:     telefono,
		Activo:       true,
	}
	db.Create(&u)
	return u
}

func crearChecklist(db *gorm.DB, expedienteID int64) {
	items := make([]domain.ChecklistItem, 0, len(domain.ChecklistPlantilla))
	for i, nombre := range domain.ChecklistPlantilla {
		items = append(items, domain.ChecklistItem{
			ExpedienteID: expedienteID,
			Nombre:       nombre,
			Orden:        i + 1,
			Obligatorio:  true,
		})
	}
	db.Create(&items)
}
