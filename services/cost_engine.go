package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/models/concerns"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// CostEngine maintains each product's weighted-average cost and quantity on
// hand. Every mutation runs inside the caller's posting transaction and
// appends a CostMovement, so the aggregate can always be rebuilt from the
// surviving events.
type CostEngine struct {
}

func NewCostEngine() *CostEngine {
	return &CostEngine{}
}

// CurrentCost loads the aggregate for update, creating the zero-state row on
// first use.
func (e *CostEngine) CurrentCost(tx *gorm.DB, product_id string) (*models.ProductCost, error) {
	var cost models.ProductCost

	result := models.Lock(tx).Where("product_id = ?", product_id).First(&cost)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		cost = models.ProductCost{
			ProductID:           product_id,
			WeightedAverageCost: decimal.Zero,
		}
		if err := tx.Create(&cost).Error; err != nil {
			return nil, err
		}

		return &cost, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &cost, nil
}

func (e *CostEngine) OnPurchase(tx *gorm.DB, product_id string, quantity int64, unit_cost decimal.Decimal, entry_id uint64) (*models.ProductCost, error) {
	cost, err := e.CurrentCost(tx, product_id)
	if err != nil {
		return nil, err
	}

	prev_quantity := cost.QuantityOnHand
	prev_cost := cost.WeightedAverageCost

	cost.WeightedAverageCost = nextAverage(prev_quantity, prev_cost, quantity, unit_cost)
	cost.QuantityOnHand += quantity

	if err := cost.SaveGuarded(tx); err != nil {
		return nil, err
	}

	movement := models.CostMovement{
		ProductID:    product_id,
		EntryID:      entry_id,
		Kind:         types.MovementPurchase,
		Quantity:     quantity,
		UnitCost:     unit_cost,
		PrevQuantity: prev_quantity,
		PrevCost:     prev_cost,
		NewCost:      cost.WeightedAverageCost,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return cost, nil
}

// OnSale decrements quantity and returns the cost the sale is valued at.
// The weighted-average cost never changes on a sale.
func (e *CostEngine) OnSale(tx *gorm.DB, product_id string, quantity int64, entry_id uint64) (decimal.Decimal, error) {
	cost, err := e.CurrentCost(tx, product_id)
	if err != nil {
		return decimal.Zero, err
	}

	if quantity > cost.QuantityOnHand {
		return decimal.Zero, fmt.Errorf("%w: product %s has %d on hand, requested %d",
			types.ErrInsufficientStock, product_id, cost.QuantityOnHand, quantity)
	}

	prev_quantity := cost.QuantityOnHand
	cost.QuantityOnHand -= quantity

	if err := cost.SaveGuarded(tx); err != nil {
		return decimal.Zero, err
	}

	movement := models.CostMovement{
		ProductID:    product_id,
		EntryID:      entry_id,
		Kind:         types.MovementSale,
		Quantity:     quantity,
		UnitCost:     cost.WeightedAverageCost,
		PrevQuantity: prev_quantity,
		PrevCost:     cost.WeightedAverageCost,
		NewCost:      cost.WeightedAverageCost,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return decimal.Zero, err
	}

	return cost.WeightedAverageCost, nil
}

// OnSaleCancellation returns the sold quantity to stock at the unchanged
// average cost.
func (e *CostEngine) OnSaleCancellation(tx *gorm.DB, product_id string, original_entry_id, cancel_entry_id uint64) error {
	original, err := e.findMovement(tx, product_id, original_entry_id, types.MovementSale)
	if err != nil {
		return err
	}

	cost, err := e.CurrentCost(tx, product_id)
	if err != nil {
		return err
	}

	prev_quantity := cost.QuantityOnHand
	cost.QuantityOnHand += original.Quantity

	if err := cost.SaveGuarded(tx); err != nil {
		return err
	}

	movement := models.CostMovement{
		ProductID:    product_id,
		EntryID:      cancel_entry_id,
		Kind:         types.MovementSaleCancel,
		Quantity:     original.Quantity,
		UnitCost:     original.UnitCost,
		PrevQuantity: prev_quantity,
		PrevCost:     cost.WeightedAverageCost,
		NewCost:      cost.WeightedAverageCost,
		ReversesID:   original.ID,
	}

	return tx.Create(&movement).Error
}

// OnPurchaseCancellation removes a purchase from the cost history. Averaging
// is not invertible by subtraction, so the aggregate is re-derived by
// replaying every surviving movement; with no later purchases this lands
// exactly on the recorded pre-purchase state.
func (e *CostEngine) OnPurchaseCancellation(tx *gorm.DB, product_id string, original_entry_id, cancel_entry_id uint64) error {
	original, err := e.findMovement(tx, product_id, original_entry_id, types.MovementPurchase)
	if err != nil {
		return err
	}

	cost, err := e.CurrentCost(tx, product_id)
	if err != nil {
		return err
	}

	if cost.QuantityOnHand < original.Quantity {
		return fmt.Errorf("%w: cancelling purchase of %d would overdraw product %s (%d on hand)",
			types.ErrInsufficientStock, original.Quantity, product_id, cost.QuantityOnHand)
	}

	quantity, average, err := e.replay(tx, product_id, original.ID)
	if err != nil {
		return err
	}

	prev_quantity := cost.QuantityOnHand
	prev_cost := cost.WeightedAverageCost

	cost.QuantityOnHand = quantity
	cost.WeightedAverageCost = average

	if err := cost.SaveGuarded(tx); err != nil {
		return err
	}

	movement := models.CostMovement{
		ProductID:    product_id,
		EntryID:      cancel_entry_id,
		Kind:         types.MovementPurchaseCancel,
		Quantity:     original.Quantity,
		UnitCost:     original.UnitCost,
		PrevQuantity: prev_quantity,
		PrevCost:     prev_cost,
		NewCost:      average,
		ReversesID:   original.ID,
	}

	return tx.Create(&movement).Error
}

func (e *CostEngine) findMovement(tx *gorm.DB, product_id string, entry_id uint64, kind types.MovementKind) (*models.CostMovement, error) {
	var movement models.CostMovement

	result := tx.Where("product_id = ? AND entry_id = ? AND kind = ?", product_id, entry_id, kind).First(&movement)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no %s movement for entry %d", types.ErrEntryNotFound, kind, entry_id)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	var reversal int64
	if err := tx.Model(&models.CostMovement{}).Where("reverses_id = ?", movement.ID).Count(&reversal).Error; err != nil {
		return nil, err
	}
	if reversal > 0 {
		return nil, fmt.Errorf("%w: movement %d", types.ErrAlreadyCancelled, movement.ID)
	}

	return &movement, nil
}

// replay folds the product's movement log from the beginning, skipping the
// movement being cancelled and every already-reversed pair.
func (e *CostEngine) replay(tx *gorm.DB, product_id string, cancelled_id uint64) (int64, decimal.Decimal, error) {
	var movements []models.CostMovement

	if err := tx.Where("product_id = ?", product_id).Order("id").Find(&movements).Error; err != nil {
		return 0, decimal.Zero, err
	}

	skipped := map[uint64]bool{cancelled_id: true}
	for _, movement := range movements {
		if movement.ReversesID != 0 {
			skipped[movement.ReversesID] = true
		}
	}

	var quantity int64
	average := decimal.Zero

	for _, movement := range movements {
		if skipped[movement.ID] {
			continue
		}

		switch movement.Kind {
		case types.MovementPurchase:
			average = nextAverage(quantity, average, movement.Quantity, movement.UnitCost)
			quantity += movement.Quantity
		case types.MovementSale:
			quantity -= movement.Quantity
			if quantity < 0 {
				return 0, decimal.Zero, fmt.Errorf("%w: replay of product %s went negative",
					types.ErrInsufficientStock, product_id)
			}
		}
	}

	return quantity, average, nil
}

func nextAverage(quantity int64, cost decimal.Decimal, quantity_in int64, unit_cost decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return concerns.Round(unit_cost)
	}

	total := decimal.NewFromInt(quantity).Mul(cost).
		Add(decimal.NewFromInt(quantity_in).Mul(unit_cost))

	return concerns.Round(total.Div(decimal.NewFromInt(quantity + quantity_in)))
}
