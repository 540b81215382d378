package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// IdempotencyKeyHeader header opcional para ajustes y ventas.
const IdempotencyKeyHeader = "Idempotency-Key"

// InventoryHandler maneja ajustes de stock, ventas y el historial de movimientos.
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// AdjustStock godoc
// @Summary      Ajustar stock
// @Description  Suma (in) o resta (out) amount unidades y registra el movimiento en la misma transacción.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id               path    string                  true   "ID del producto"
// @Param        Idempotency-Key  header  string                  false  "Clave para reintentos seguros"
// @Param        body             body    dto.AdjustStockRequest  true   "amount, direction (in|out), reason"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.uc.AdjustStock(c.UserContext(), inventory.AdjustStockInput{
		ProductID:      c.Params("id"),
		Amount:         parseCount(in.Amount),
		Direction:      entity.Direction(in.Direction),
		Reason:         in.Reason,
		IdempotencyKey: c.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Últimos movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Máximo de entradas (1-100)"  default(10)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("id")
	list, err := h.uc.ListRecentMovements(c.UserContext(), productID, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{ProductID: productID, Items: items})
}

// RecordSale godoc
// @Summary      Registrar venta
// @Description  Descuenta quantity del stock, fija el precio actual y registra el movimiento "Sale".
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave para reintentos seguros"
// @Param        body             body    dto.RecordSaleRequest  true   "product_id, quantity"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.uc.RecordSale(c.UserContext(), inventory.RecordSaleInput{
		ProductID:      in.ProductID,
		Quantity:       parseCount(in.Quantity),
		IdempotencyKey: c.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{
		ID:          sale.ID,
		ProductID:   sale.ProductID,
		Quantity:    sale.Quantity,
		PriceAtSale: sale.PriceAtSale,
		CreatedAt:   sale.CreatedAt,
	})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Change:    m.Change,
		Reason:    m.Reason,
		SaleID:    m.SaleID,
		CreatedAt: m.CreatedAt,
	}
}

// parseCount interpreta amount/quantity: número JSON entero o string con un entero
// (como llega desde un formulario). Cualquier otro valor, o uno fuera de
// 1..entity.MaxQuantity, devuelve 0 para que el caso de uso lo rechace después de
// comprobar que el producto existe.
func parseCount(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 || n > entity.MaxQuantity {
		return 0
	}
	return int(n)
}
