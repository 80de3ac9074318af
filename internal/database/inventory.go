package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

// transferInventoryTx moves quantity of a product from a hub to a
// terminal inside the caller's transaction. The availability check is
// the UPDATE predicate itself: if the source balance is short the
// statement matches zero rows, nothing is written, and the caller's
// rollback leaves both balances untouched. Concurrent completions
// against the same hub/product serialize on the row lock the UPDATE
// takes, never on an in-process mutex, so multiple service instances
// may run at once.
func transferInventoryTx(tx *sqlx.Tx, fromHubID, toTerminalID, productID string, quantity float64) error {
	if quantity <= 0 {
		return apperrors.Validation("transfer quantity must be positive, got %f", quantity)
	}

	now := time.Now().Unix()

	result, err := tx.Exec(
		`UPDATE inventory
		 SET quantity = quantity - $1, updated_at = $2
		 WHERE location_id = $3 AND location_type = 'hub' AND product_id = $4
		   AND quantity >= $1`,
		quantity, now, fromHubID, productID,
	)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if rows == 0 {
		return apperrors.InsufficientInventory(
			"hub %s has insufficient stock of product %s for quantity %g",
			fromHubID, productID, quantity,
		)
	}

	// First delivery to a terminal creates its record
	_, err = tx.Exec(
		`INSERT INTO inventory (id, location_id, location_type, product_id, quantity, updated_at)
		 VALUES ($1, $2, 'terminal', $3, $4, $5)
		 ON CONFLICT ON CONSTRAINT inventory_location_product_key
		 DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), toTerminalID, productID, quantity, now,
	)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// Transfer runs a hub→terminal inventory transfer as its own
// transaction (the Order Engine folds the same logic into the order
// completion transaction instead)
func Transfer(db *sqlx.DB, fromHubID, toTerminalID, productID string, quantity float64) error {
	tx, err := db.Beginx()
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	defer tx.Rollback()

	if err := transferInventoryTx(tx, fromHubID, toTerminalID, productID, quantity); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// AdjustInventory sets up or tops up stock at a location. This is the
// administrative escape hatch outside the conservation invariant;
// routine movement goes through transfers.
func AdjustInventory(db *sqlx.DB, locationID string, locationType models.LocationType, productID string, quantity float64) (*models.InventoryRecord, error) {
	if quantity < 0 {
		return nil, apperrors.Validation("quantity must be >= 0, got %f", quantity)
	}
	if locationType != models.LocationHub && locationType != models.LocationTerminal {
		return nil, apperrors.Validation("location_type must be hub or terminal, got %q", locationType)
	}

	now := time.Now().Unix()
	record := models.InventoryRecord{}
	err := db.Get(&record,
		`INSERT INTO inventory (id, location_id, location_type, product_id, quantity, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT ON CONSTRAINT inventory_location_product_key
		 DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		 RETURNING *`,
		uuid.New().String(), locationID, locationType, productID, quantity, now,
	)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &record, nil
}

// ListInventory returns a point-in-time snapshot, optionally filtered
// by location type and/or product
func ListInventory(db *sqlx.DB, locationType, productID string) ([]models.InventoryRecord, error) {
	query := `SELECT * FROM inventory WHERE 1=1`
	args := []interface{}{}
	if locationType != "" {
		args = append(args, locationType)
		query += ` AND location_type = $1`
	}
	if productID != "" {
		args = append(args, productID)
		if len(args) == 1 {
			query += ` AND product_id = $1`
		} else {
			query += ` AND product_id = $2`
		}
	}
	query += ` ORDER BY location_type, location_id`

	records := []models.InventoryRecord{}
	if err := db.Select(&records, query, args...); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return records, nil
}
