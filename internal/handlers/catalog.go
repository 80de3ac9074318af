package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fleetpanda-backend/internal/database"
	"fleetpanda-backend/internal/models"
	"fleetpanda-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateHubRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateHub registers a fuel storage hub
func CreateHub(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/hubs")

		var req CreateHubRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name is required")
			return
		}

		hub := models.Hub{
			ID:        uuid.New().String(),
			Name:      req.Name,
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			CreatedAt: time.Now().Unix(),
		}

		query := `
			INSERT INTO hubs (id, name, address, latitude, longitude, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := db.Exec(query, hub.ID, hub.Name, hub.Address, hub.Latitude, hub.Longitude, hub.CreatedAt); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create hub")
			return
		}

		log.Printf("✅ Hub created: %s (%s)", hub.Name, hub.ID)
		utils.RespondData(w, http.StatusCreated, hub)
	}
}

// GetHubs lists all hubs
func GetHubs(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var hubs []models.Hub
		if err := db.Select(&hubs, "SELECT * FROM hubs ORDER BY name"); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch hubs")
			return
		}
		if hubs == nil {
			hubs = []models.Hub{}
		}
		utils.RespondData(w, http.StatusOK, hubs)
	}
}

type CreateTerminalRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateTerminal registers a delivery terminal
func CreateTerminal(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/terminals")

		var req CreateTerminalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name is required")
			return
		}

		terminal := models.Terminal{
			ID:        uuid.New().String(),
			Name:      req.Name,
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			CreatedAt: time.Now().Unix(),
		}

		query := `
			INSERT INTO terminals (id, name, address, latitude, longitude, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := db.Exec(query, terminal.ID, terminal.Name, terminal.Address, terminal.Latitude, terminal.Longitude, terminal.CreatedAt); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create terminal")
			return
		}

		log.Printf("✅ Terminal created: %s (%s)", terminal.Name, terminal.ID)
		utils.RespondData(w, http.StatusCreated, terminal)
	}
}

// GetTerminals lists all terminals
func GetTerminals(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var terminals []models.Terminal
		if err := db.Select(&terminals, "SELECT * FROM terminals ORDER BY name"); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch terminals")
			return
		}
		if terminals == nil {
			terminals = []models.Terminal{}
		}
		utils.RespondData(w, http.StatusOK, terminals)
	}
}

type CreateProductRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateProduct registers a fuel product
func CreateProduct(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/products")

		var req CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name is required")
			return
		}

		product := models.Product{
			ID:        uuid.New().String(),
			Name:      req.Name,
			Type:      req.Type,
			CreatedAt: time.Now().Unix(),
		}

		query := `INSERT INTO products (id, name, type, created_at) VALUES ($1, $2, $3, $4)`
		if _, err := db.Exec(query, product.ID, product.Name, product.Type, product.CreatedAt); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create product")
			return
		}

		log.Printf("✅ Product created: %s (%s)", product.Name, product.ID)
		utils.RespondData(w, http.StatusCreated, product)
	}
}

// GetProducts lists all products
func GetProducts(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var products []models.Product
		if err := db.Select(&products, "SELECT * FROM products ORDER BY name"); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		utils.RespondData(w, http.StatusOK, products)
	}
}

// GetInventory lists inventory records, optionally filtered by
// ?location_type=hub|terminal and ?product_id=
func GetInventory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationType := r.URL.Query().Get("location_type")
		productID := r.URL.Query().Get("product_id")

		if locationType != "" && locationType != string(models.LocationHub) && locationType != string(models.LocationTerminal) {
			utils.RespondError(w, http.StatusBadRequest, "location_type must be 'hub' or 'terminal'")
			return
		}

		records, err := database.ListInventory(db, locationType, productID)
		if err != nil {
			log.Printf("❌ Failed to fetch inventory: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, records)
	}
}

type AdjustInventoryRequest struct {
	LocationID   string  `json:"location_id"`
	LocationType string  `json:"location_type"`
	ProductID    string  `json:"product_id"`
	Quantity     float64 `json:"quantity"`
}

// AdjustInventory tops up stock of a product at a location. Used for
// opening stock and hub resupply.
func AdjustInventory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/inventory/adjust")

		var req AdjustInventoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.LocationID == "" || req.ProductID == "" {
			utils.RespondError(w, http.StatusBadRequest, "location_id and product_id are required")
			return
		}
		if req.LocationType != string(models.LocationHub) && req.LocationType != string(models.LocationTerminal) {
			utils.RespondError(w, http.StatusBadRequest, "location_type must be 'hub' or 'terminal'")
			return
		}

		record, err := database.AdjustInventory(db, req.LocationID, models.LocationType(req.LocationType), req.ProductID, req.Quantity)
		if err != nil {
			log.Printf("❌ Failed to adjust inventory: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Inventory adjusted: %s @ %s = %.2f", req.ProductID, req.LocationID, record.Quantity)
		utils.RespondData(w, http.StatusOK, record)
	}
}
