package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bank-clients-api/common"
	"bank-clients-api/logger"
	"bank-clients-api/model"

	"github.com/google/uuid"
)

// IClientRepository is the CRUD-by-id contract the service layer depends on.
// Each client is stored as one whole document; the store offers no
// conditional writes, so Update is always a full-document upsert.
type IClientRepository interface {
	Create(ctx context.Context, client *model.Client) (*model.Client, error)
	GetAll(ctx context.Context) ([]*model.Client, error)
	GetByID(ctx context.Context, id string) (*model.Client, error)
	Update(ctx context.Context, client *model.Client) (*model.Client, error)
	Remove(ctx context.Context, id string) (*model.Client, error)
}

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

// Create stores a new client document under a freshly generated id. Any id
// supplied by the caller is overwritten.
func (r *ClientRepository) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	client.ID = uuid.NewString()

	log := logger.Log.WithField("client_id", client.ID)
	log.Info("Executing query to create a new client document")

	doc, err := json.Marshal(client)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal client document: %w", err)
	}

	query := `INSERT INTO clients (id, doc) VALUES ($1, $2)`
	if _, err := r.DB.ExecContext(ctx, query, client.ID, doc); err != nil {
		log.WithError(err).Error("Failed to execute create client query")
		return nil, err
	}
	return client, nil
}

// GetAll retrieves every client document. The order is whatever the store
// returns; it is not guaranteed to be stable.
func (r *ClientRepository) GetAll(ctx context.Context) ([]*model.Client, error) {
	logger.Log.Info("Executing query to get all client documents")

	query := `SELECT doc FROM clients`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all clients")
		return nil, err
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			logger.Log.WithError(err).Error("Failed to scan client document row")
			return nil, err
		}
		var client model.Client
		if err := json.Unmarshal(doc, &client); err != nil {
			logger.Log.WithError(err).Error("Failed to unmarshal client document")
			return nil, err
		}
		clients = append(clients, &client)
	}
	return clients, rows.Err()
}

// GetByID retrieves one client document by id.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	log := logger.Log.WithField("client_id", id)
	log.Info("Executing query to get client document by ID")

	var doc []byte
	query := `SELECT doc FROM clients WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Client document not found")
			return nil, common.NewNotFoundError(fmt.Sprintf("The resource with id %s could not be found", id), id)
		}
		log.WithError(err).Error("Failed to execute get client by ID query")
		return nil, err
	}

	var client model.Client
	if err := json.Unmarshal(doc, &client); err != nil {
		log.WithError(err).Error("Failed to unmarshal client document")
		return nil, err
	}
	return &client, nil
}

// Update replaces the full client document keyed by its id. An unknown id
// creates a new document rather than failing (upsert semantics).
func (r *ClientRepository) Update(ctx context.Context, client *model.Client) (*model.Client, error) {
	log := logger.Log.WithField("client_id", client.ID)
	log.Info("Executing query to upsert client document")

	doc, err := json.Marshal(client)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal client document: %w", err)
	}

	query := `INSERT INTO clients (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`
	if _, err := r.DB.ExecContext(ctx, query, client.ID, doc); err != nil {
		log.WithError(err).Error("Failed to execute upsert client query")
		return nil, err
	}
	return client, nil
}

// Remove reads the client document, deletes it, and returns the pre-deletion
// value. The read and the delete are two separate store calls.
func (r *ClientRepository) Remove(ctx context.Context, id string) (*model.Client, error) {
	log := logger.Log.WithField("client_id", id)
	log.Info("Executing query to remove client document")

	client, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM clients WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		log.WithError(err).Error("Failed to execute delete client query")
		return nil, err
	}
	return client, nil
}
