package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"almuerzos-backend/internal/audit"
	"almuerzos-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxNotesLen = 500

// Service - flujo de admisión de pedidos: consulta, alta/actualización y
// cancelación con ventana de horario y unicidad por (trabajador, fecha).
// Todas las dependencias entran por el constructor.
type Service struct {
	db      *gorm.DB
	window  *TimeWindow
	timeout time.Duration
}

func NewService(db *gorm.DB, window *TimeWindow, timeout time.Duration) *Service {
	return &Service{db: db, window: window, timeout: timeout}
}

func (s *Service) Window() *TimeWindow { return s.window }

// -------------------------
// Filas auxiliares (scans)
// -------------------------

type workerRow struct {
	ID             uint
	Identification string
	Name           string
	Email          string
	Role           models.UserRole
	Active         bool
	CompanyID      *uint
	CompanyName    string
}

type optionRow struct {
	ID            uint
	MenuID        uint
	OptionIdx     int
	Name          string
	Description   string
	Available     bool
	MenuName      string
	MenuCompanyID *uint
	MenuActive    bool
}

const workerSQL = `
	SELECT u.id, u.identification, u.name, u.email, u.role, u.active, u.company_id,
	       COALESCE(c.name, '') AS company_name
	FROM users u
	LEFT JOIN companies c ON c.id = u.company_id
	WHERE u.id = ?`

const optionSQL = `
	SELECT mo.id, mo.menu_id, mo.option_idx, mo.name, mo.description, mo.available,
	       m.name AS menu_name, m.company_id AS menu_company_id, m.active AS menu_active
	FROM menu_options mo
	INNER JOIN menus m ON m.id = mo.menu_id
	WHERE mo.id = ?`

// getWorker resuelve y valida al trabajador. requireCompany aplica en Place:
// sin empresa no hay precio ni menú que resolver.
func getWorker(tx *gorm.DB, workerID uint, requireCompany bool) (*workerRow, *Error) {
	var w workerRow
	if err := tx.Raw(workerSQL, workerID).Scan(&w).Error; err != nil {
		return nil, errStore
	}
	if w.ID == 0 {
		return nil, errWorkerNotFound
	}
	if w.Role != models.RoleWorker {
		return nil, errInvalidProfile
	}
	if !w.Active {
		return nil, errWorkerInactive
	}
	if requireCompany && w.CompanyID == nil {
		return nil, errNoCompany
	}
	return &w, nil
}

// -------------------------
// Consulta (GET)
// -------------------------

type OrderDetail struct {
	ID                uint    `json:"id"`
	Date              string  `json:"fecha"`
	Status            string  `json:"estado"`
	WorkerID          uint    `json:"trabajador_id"`
	OptionID          uint    `json:"opcion_id"`
	OptionIdx         int     `json:"opcion_idx"`
	OptionName        string  `json:"opcion_nombre"`
	OptionDescription string  `json:"opcion_descripcion"`
	OptionIngredients string  `json:"opcion_ingredientes"`
	OptionCalories    *int    `json:"opcion_calorias"`
	MenuID            uint    `json:"menu_id"`
	MenuName          string  `json:"menu_nombre"`
	MenuDescription   string  `json:"menu_descripcion"`
	Price             float64 `json:"precio"`
	Notes             string  `json:"observaciones"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type WorkerInfo struct {
	Name           string `json:"nombre"`
	Identification string `json:"identificacion"`
	Company        string `json:"empresa"`
}

type OrderView struct {
	HasOrder  bool
	CanModify bool
	Remaining string // "" cuando no aplica (fecha futura u horario cerrado)
	Order     *OrderDetail
	Worker    WorkerInfo
}

type orderViewRow struct {
	ID                uint
	Date              time.Time
	Status            string
	WorkerID          uint
	OptionID          uint
	OptionIdx         int
	OptionName        string
	OptionDescription string
	OptionIngredients string
	OptionCalories    *int
	MenuID            uint
	MenuName          string
	MenuDescription   string
	Price             float64
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const orderViewSQL = `
	SELECT p.id, p.date, p.status, p.worker_id, p.option_id, p.notes, p.created_at, p.updated_at,
	       mo.option_idx, mo.name AS option_name, mo.description AS option_description,
	       mo.ingredients AS option_ingredients, mo.calories AS option_calories, mo.menu_id,
	       m.name AS menu_name, m.description AS menu_description,
	       COALESCE(mp.price, 0) AS price
	FROM orders p
	INNER JOIN menu_options mo ON p.option_id = mo.id
	INNER JOIN menus m ON mo.menu_id = m.id
	LEFT JOIN menu_prices mp ON mp.menu_option_id = mo.id AND mp.company_id = ?
	WHERE p.worker_id = ? AND p.date = ? AND p.status <> 'cancelado'
	LIMIT 1`

// Query devuelve el pedido no cancelado del trabajador para la fecha, con la
// vista denormalizada (opción, menú, precio para su empresa) y si la ventana
// aún permite modificarlo. No tiene efectos secundarios.
func (s *Service) Query(ctx context.Context, workerID uint, date string) (*OrderView, *Error) {
	if workerID == 0 {
		return nil, errWorkerIDRequired
	}
	if date == "" {
		date = s.window.Today()
	}
	if verr := s.window.ValidateDate(date); verr != nil {
		return nil, verr
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	db := s.db.WithContext(ctx)

	var w workerRow
	if err := db.Raw(workerSQL, workerID).Scan(&w).Error; err != nil {
		return nil, errStore
	}
	if w.ID == 0 {
		return nil, errWorkerNotFound
	}
	if w.Role != models.RoleWorker {
		return nil, errInvalidProfile
	}
	if !w.Active {
		return nil, errWorkerInactive
	}

	view := &OrderView{
		Worker: WorkerInfo{Name: w.Name, Identification: w.Identification, Company: w.CompanyName},
	}
	if remaining, werr := s.window.Check(date); werr == nil {
		view.CanModify = true
		view.Remaining = remaining
	}

	var row orderViewRow
	if err := db.Raw(orderViewSQL, w.CompanyID, workerID, date).Scan(&row).Error; err != nil {
		return nil, errStore
	}
	if row.ID == 0 {
		return view, nil
	}

	view.HasOrder = true
	view.Order = &OrderDetail{
		ID:                row.ID,
		Date:              row.Date.Format("2006-01-02"),
		Status:            row.Status,
		WorkerID:          row.WorkerID,
		OptionID:          row.OptionID,
		OptionIdx:         row.OptionIdx,
		OptionName:        row.OptionName,
		OptionDescription: row.OptionDescription,
		OptionIngredients: row.OptionIngredients,
		OptionCalories:    row.OptionCalories,
		MenuID:            row.MenuID,
		MenuName:          row.MenuName,
		MenuDescription:   row.MenuDescription,
		Price:             row.Price,
		Notes:             row.Notes,
		CreatedAt:         row.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         row.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	return view, nil
}

// -------------------------
// Alta / actualización (POST)
// -------------------------

type PlaceParams struct {
	WorkerID uint
	OptionID uint
	Date     string // vacío = hoy
	Notes    string
}

type PlacementResult struct {
	OrderID    uint
	Action     string // "creado" | "actualizado"
	Worker     WorkerInfo
	MenuName   string
	OptionName string
	OptionIdx  int
	Date       string
	Notes      string
}

// Place crea o actualiza el pedido del trabajador para la fecha, de forma
// idempotente sobre la clave (trabajador, fecha):
//
//	sin pedido            -> INSERT estado confirmado  ("creado")
//	misma opción          -> solo observaciones        ("actualizado")
//	opción distinta       -> opción + confirmado       ("actualizado")
//
// Toda la validación ocurre antes de escribir; la secuencia completa corre en
// una transacción. Si dos envíos simultáneos pasan ambos el paso de consulta,
// el INSERT perdedor choca con el índice único parcial (23505) y se reintenta
// una vez, cayendo en la rama de actualización: exactamente un "creado".
func (s *Service) Place(ctx context.Context, p PlaceParams) (*PlacementResult, *Error) {
	if p.WorkerID == 0 || p.OptionID == 0 {
		return nil, errPlaceParams
	}
	if p.Date == "" {
		p.Date = s.window.Today()
	}
	if verr := s.window.ValidateDate(p.Date); verr != nil {
		return nil, verr
	}
	if _, verr := s.window.Check(p.Date); verr != nil {
		return nil, verr
	}
	if runes := []rune(p.Notes); len(runes) > maxNotesLen {
		p.Notes = string(runes[:maxNotesLen])
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		result *PlacementResult
		bizErr *Error
	)

	for attempt := 0; attempt < 2; attempt++ {
		result, bizErr = nil, nil

		txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			worker, werr := getWorker(tx, p.WorkerID, true)
			if werr != nil {
				bizErr = werr
				return werr
			}

			var opt optionRow
			if err := tx.Raw(optionSQL, p.OptionID).Scan(&opt).Error; err != nil {
				return err
			}
			if opt.ID == 0 {
				bizErr = errOptionNotFound
				return bizErr
			}
			if !opt.MenuActive {
				bizErr = errMenuInactive
				return bizErr
			}
			if !opt.Available {
				bizErr = errOptionUnavailable
				return bizErr
			}
			if opt.MenuCompanyID != nil && *opt.MenuCompanyID != *worker.CompanyID {
				bizErr = errCompanyMismatch
				return bizErr
			}

			var existing models.Order
			if err := tx.Where("worker_id = ? AND date = ? AND status <> ?", p.WorkerID, p.Date, models.OrderCancelled).
				Limit(1).Find(&existing).Error; err != nil {
				return err
			}

			now := s.window.Now()
			result = &PlacementResult{
				Worker:     WorkerInfo{Name: worker.Name, Identification: worker.Identification, Company: worker.CompanyName},
				MenuName:   opt.MenuName,
				OptionName: opt.Name,
				OptionIdx:  opt.OptionIdx,
				Date:       p.Date,
				Notes:      p.Notes,
			}

			if existing.ID == 0 {
				day, _ := time.ParseInLocation("2006-01-02", p.Date, time.UTC)
				order := models.Order{
					WorkerID: p.WorkerID,
					OptionID: p.OptionID,
					Date:     day,
					Status:   models.OrderConfirmed,
					Notes:    p.Notes,
				}
				if err := tx.Create(&order).Error; err != nil {
					return err
				}
				result.OrderID = order.ID
				result.Action = "creado"
				return nil
			}

			result.OrderID = existing.ID
			result.Action = "actualizado"

			if existing.OptionID == p.OptionID {
				// Misma opción: solo observaciones, estado y opción intactos
				return tx.Model(&models.Order{}).Where("id = ?", existing.ID).
					Updates(map[string]any{"notes": p.Notes, "updated_at": now}).Error
			}

			return tx.Model(&models.Order{}).Where("id = ?", existing.ID).
				Updates(map[string]any{
					"option_id":  p.OptionID,
					"notes":      p.Notes,
					"status":     models.OrderConfirmed,
					"updated_at": now,
				}).Error
		})

		if txErr == nil {
			break
		}
		if bizErr != nil {
			return nil, bizErr
		}
		if attempt == 0 && isUniqueViolation(txErr) {
			continue // pedido creado por una petición concurrente; reintentar como actualización
		}
		return nil, errStore
	}

	action := "PEDIDO_ACTUALIZADO"
	if result.Action == "creado" {
		action = "PEDIDO_CREADO"
	}
	s.logActivity(result.Worker, action, result.OrderID, logDetails{
		"trabajador_id": p.WorkerID,
		"opcion_id":     p.OptionID,
		"fecha":         p.Date,
	})

	return result, nil
}

// -------------------------
// Cancelación (DELETE)
// -------------------------

type CancellationResult struct {
	Date        string
	CancelledAt string // HH:MM:SS
}

// Cancel marca como cancelado el pedido no cancelado de (trabajador, fecha).
// Nunca borra la fila. No es idempotente a propósito: sin pedido activo se
// responde PEDIDO_NOT_FOUND, igual que el contrato original.
func (s *Service) Cancel(ctx context.Context, workerID uint, date string) (*CancellationResult, *Error) {
	if workerID == 0 {
		return nil, errWorkerIDRequired
	}
	if date == "" {
		date = s.window.Today()
	}
	if verr := s.window.ValidateDate(date); verr != nil {
		return nil, verr
	}
	if _, verr := s.window.Check(date); verr != nil {
		return nil, verr
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.window.Now()
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("worker_id = ? AND date = ? AND status <> ?", workerID, date, models.OrderCancelled).
		Updates(map[string]any{"status": models.OrderCancelled, "updated_at": now})
	if res.Error != nil {
		return nil, errStore
	}
	if res.RowsAffected == 0 {
		return nil, errOrderNotFound
	}

	s.logActivity(WorkerInfo{}, "PEDIDO_CANCELADO", 0, logDetails{
		"trabajador_id": workerID,
		"fecha":         date,
	})

	return &CancellationResult{Date: date, CancelledAt: now.Format("15:04:05")}, nil
}

// -------------------------
// Listado consolidado (vendedor)
// -------------------------

type DayOrder struct {
	ID                   uint     `json:"id"`
	Date                 string   `json:"fecha"`
	WorkerID             uint     `json:"trabajador_id"`
	WorkerName           string   `json:"trabajador_nombre"`
	WorkerIdentification string   `json:"trabajador_identificacion"`
	CompanyID            *uint    `json:"empresa_id"`
	CompanyName          string   `json:"empresa_nombre"`
	OptionID             uint     `json:"opcion_id"`
	OptionName           string   `json:"opcion_nombre"`
	OptionDescription    string   `json:"opcion_descripcion"`
	MenuID               uint     `json:"menu_id"`
	MenuName             string   `json:"menu_nombre"`
	Price                *float64 `json:"opcion_precio"`
	Notes                string   `json:"observaciones"`
}

type dayOrderRow struct {
	ID                   uint
	Date                 time.Time
	WorkerID             uint
	WorkerName           string
	WorkerIdentification string
	CompanyID            *uint
	CompanyName          string
	OptionID             uint
	OptionName           string
	OptionDescription    string
	MenuID               uint
	MenuName             string
	Price                *float64
	Notes                string
}

const dayOrdersSQL = `
	SELECT p.id, p.date, p.notes,
	       u.id AS worker_id, u.name AS worker_name, u.identification AS worker_identification,
	       u.company_id, COALESCE(e.name, '') AS company_name,
	       mo.id AS option_id, mo.name AS option_name, mo.description AS option_description,
	       m.id AS menu_id, m.name AS menu_name,
	       mp.price
	FROM orders p
	INNER JOIN users u ON p.worker_id = u.id
	LEFT JOIN companies e ON u.company_id = e.id
	INNER JOIN menu_options mo ON p.option_id = mo.id
	INNER JOIN menus m ON mo.menu_id = m.id
	LEFT JOIN menu_prices mp ON mp.menu_option_id = mo.id AND mp.company_id = u.company_id
	WHERE p.date = ? AND p.status <> 'cancelado'`

// ListDay - pedidos confirmados de una fecha, denormalizados para cocina y
// vendedores, opcionalmente filtrados por empresa.
func (s *Service) ListDay(ctx context.Context, date string, companyID *uint) ([]DayOrder, *Error) {
	if date == "" {
		date = s.window.Today()
	}
	if verr := s.window.ValidateDate(date); verr != nil {
		return nil, verr
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sql := dayOrdersSQL
	args := []any{date}
	if companyID != nil {
		sql += " AND u.company_id = ?"
		args = append(args, *companyID)
	}
	sql += " ORDER BY e.name, u.name, mo.option_idx ASC"

	var rows []dayOrderRow
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errStore
	}

	out := make([]DayOrder, 0, len(rows))
	for _, r := range rows {
		out = append(out, DayOrder{
			ID:                   r.ID,
			Date:                 r.Date.Format("2006-01-02"),
			WorkerID:             r.WorkerID,
			WorkerName:           r.WorkerName,
			WorkerIdentification: r.WorkerIdentification,
			CompanyID:            r.CompanyID,
			CompanyName:          r.CompanyName,
			OptionID:             r.OptionID,
			OptionName:           r.OptionName,
			OptionDescription:    r.OptionDescription,
			MenuID:               r.MenuID,
			MenuName:             r.MenuName,
			Price:                r.Price,
			Notes:                r.Notes,
		})
	}
	return out, nil
}

// -------------------------
// Utilidades
// -------------------------

type logDetails map[string]any

// logActivity - registro fire-and-forget; un fallo jamás afecta la respuesta.
func (s *Service) logActivity(worker WorkerInfo, action string, orderID uint, details logDetails) {
	err := audit.Write(s.db, audit.Entry{
		UserName:   worker.Name,
		Action:     action,
		EntityType: "pedido",
		EntityID:   orderID,
		Details:    details,
	})
	if err != nil {
		log.Printf("[WARN] actividad no registrada (%s): %v", action, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
