package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bank-clients-api/common"
	"bank-clients-api/logger"
	"bank-clients-api/model"
	"bank-clients-api/service"

	"github.com/sirupsen/logrus"
)

type ClientHandler struct {
	service service.IClientService
}

func NewClientHandler(service service.IClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// toAppError maps domain failures onto HTTP status codes: missing resources
// are 404, rejected balance operations are 422, everything else is reported
// as a generic 500.
func toAppError(err error) *common.AppError {
	var notFound *common.NotFoundError
	if errors.As(err, &notFound) {
		return common.NewAppError(http.StatusNotFound, notFound.Message, nil)
	}
	var txErr *common.TransactionError
	if errors.As(err, &txErr) {
		return common.NewAppError(http.StatusUnprocessableEntity, txErr.Message, nil)
	}
	return common.NewAppError(http.StatusInternalServerError, "An unknown error occurred", err)
}

// ListClients godoc
// @Summary      List all clients
// @Description  get every stored client with their accounts
// @Tags         clients
// @Produce      json
// @Success      200  {array}   model.Client
// @Failure      500  {object}  common.AppError
// @Router       /clients [get]
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) *common.AppError {
	logger.Log.Info("List clients request received")

	clients, err := h.service.RetrieveAllClients(r.Context())
	if err != nil {
		return toAppError(err)
	}
	if clients == nil {
		clients = []*model.Client{}
	}

	writeJSON(w, http.StatusOK, clients)
	return nil
}

// CreateClient godoc
// @Summary      Create a new client
// @Description  create a client; an empty accounts list is seeded with a default checking account
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        client  body      model.ClientRequest  true  "Client to create"
// @Success      201     {object}  model.Client
// @Failure      400     {object}  common.AppError
// @Router       /clients [post]
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ClientRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"fname": req.FirstName,
		"lname": req.LastName,
	}).Info("Create client request received")

	client, err := h.service.AddClient(r.Context(), req.ToClient())
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusCreated, client)
	return nil
}

// GetClient godoc
// @Summary      Get a client by id
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  model.Client
// @Failure      404  {object}  common.AppError
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	logger.Log.WithField("client_id", id).Info("Get client request received")

	client, err := h.service.RetrieveClientByID(r.Context(), id)
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusOK, client)
	return nil
}

// UpdateClient godoc
// @Summary      Replace a client's data
// @Description  full-document replace keyed by the path id; an unknown id creates the document
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id      path      string               true  "Client ID"
// @Param        client  body      model.ClientRequest  true  "New client data"
// @Success      200     {object}  model.Client
// @Failure      400     {object}  common.AppError
// @Router       /clients/{id} [put]
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")

	var req model.ClientRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithField("client_id", id).Info("Update client request received")

	client := req.ToClient()
	client.ID = id
	updated, err := h.service.UpdateClient(r.Context(), client)
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusOK, updated)
	return nil
}

// DeleteClient godoc
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  model.Client
// @Failure      404  {object}  common.AppError
// @Router       /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	logger.Log.WithField("client_id", id).Info("Delete client request received")

	client, err := h.service.DeleteClient(r.Context(), id)
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusOK, client)
	return nil
}

// AddAccount godoc
// @Summary      Add an account to a client
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Client ID"
// @Param        account  body      model.AccountRequest  true  "Account to add"
// @Success      201      {object}  model.Client
// @Failure      400      {object}  common.AppError
// @Failure      404      {object}  common.AppError
// @Router       /clients/{id}/accounts [post]
func (h *ClientHandler) AddAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")

	var req model.AccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"client_id":    id,
		"account_name": req.Name,
	}).Info("Add account request received")

	client, err := h.service.AddAccountToClient(r.Context(), id, req.ToAccount())
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusCreated, client)
	return nil
}

// ListAccounts godoc
// @Summary      List a client's accounts
// @Description  optionally filtered by amountGreaterThan / amountLessThan; both bounds are inclusive, and supplying both returns the intersection
// @Tags         accounts
// @Produce      json
// @Param        id                 path      string  true   "Client ID"
// @Param        amountGreaterThan  query     number  false  "Keep accounts with balance >= this value"
// @Param        amountLessThan     query     number  false  "Keep accounts with balance <= this value"
// @Success      200  {array}   model.Account
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /clients/{id}/accounts [get]
func (h *ClientHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	lessThan := r.URL.Query().Get("amountLessThan")
	greaterThan := r.URL.Query().Get("amountGreaterThan")

	logger.Log.WithFields(logrus.Fields{
		"client_id":           id,
		"amount_less_than":    lessThan,
		"amount_greater_than": greaterThan,
	}).Info("List accounts request received")

	var accounts []model.Account
	var err error

	switch {
	case lessThan == "" && greaterThan == "":
		accounts, err = h.service.RetrieveClientAccounts(r.Context(), id)
	case lessThan == "":
		var threshold float64
		if threshold, err = strconv.ParseFloat(greaterThan, 64); err != nil {
			return common.NewAppError(http.StatusBadRequest, "amountGreaterThan must be a number", err)
		}
		accounts, err = h.service.RetrieveClientAccountsOver(r.Context(), id, threshold)
	case greaterThan == "":
		var threshold float64
		if threshold, err = strconv.ParseFloat(lessThan, 64); err != nil {
			return common.NewAppError(http.StatusBadRequest, "amountLessThan must be a number", err)
		}
		accounts, err = h.service.RetrieveClientAccountsUnder(r.Context(), id, threshold)
	default:
		// Both bounds present: fetch everything and keep the inclusive
		// intersection in memory.
		upper, perr := strconv.ParseFloat(lessThan, 64)
		if perr != nil {
			return common.NewAppError(http.StatusBadRequest, "amountLessThan must be a number", perr)
		}
		lower, perr := strconv.ParseFloat(greaterThan, 64)
		if perr != nil {
			return common.NewAppError(http.StatusBadRequest, "amountGreaterThan must be a number", perr)
		}
		var all []model.Account
		all, err = h.service.RetrieveClientAccounts(r.Context(), id)
		if err == nil {
			accounts = []model.Account{}
			for _, a := range all {
				if a.Balance >= lower && a.Balance <= upper {
					accounts = append(accounts, a)
				}
			}
		}
	}
	if err != nil {
		return toAppError(err)
	}
	if accounts == nil {
		accounts = []model.Account{}
	}

	writeJSON(w, http.StatusOK, accounts)
	return nil
}

// GetAccount godoc
// @Summary      Get one of a client's accounts by name
// @Tags         accounts
// @Produce      json
// @Param        id           path      string  true  "Client ID"
// @Param        accountName  path      string  true  "Account name"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError
// @Router       /clients/{id}/{accountName} [get]
func (h *ClientHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	accountName := r.PathValue("accountName")

	logger.Log.WithFields(logrus.Fields{
		"client_id":    id,
		"account_name": accountName,
	}).Info("Get account request received")

	account, err := h.service.RetrieveClientAccount(r.Context(), id, accountName)
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusOK, account)
	return nil
}

// UpdateAccountBalance godoc
// @Summary      Deposit to or withdraw from a client's account
// @Description  applies the accountAction ("deposit" or "withdraw") to every account with the given name
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id             path      string               true  "Client ID"
// @Param        accountName    path      string               true  "Account name"
// @Param        accountAction  path      string               true  "deposit or withdraw"
// @Param        amount         body      model.AmountRequest  true  "Amount to apply"
// @Success      200  {object}  model.Client
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      422  {object}  common.AppError
// @Router       /clients/{id}/{accountName}/{accountAction} [patch]
func (h *ClientHandler) UpdateAccountBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	accountName := r.PathValue("accountName")
	accountAction := r.PathValue("accountAction")

	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"client_id":    id,
		"account_name": accountName,
		"operation":    accountAction,
		"amount":       req.Amount,
	}).Info("Update account balance request received")

	client, err := h.service.UpdateClientAccountBalance(r.Context(), id, accountName, accountAction, req.Amount)
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusOK, client)
	return nil
}

// DeleteAccount godoc
// @Summary      Delete a client's account(s) by name
// @Description  removes every account with the given name and returns the last one removed; the reserved name "accounts" clears the whole sequence and returns it
// @Tags         accounts
// @Produce      json
// @Param        id           path      string  true  "Client ID"
// @Param        accountName  path      string  true  "Account name, or the literal accounts"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError
// @Router       /clients/{id}/{accountName} [delete]
func (h *ClientHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	accountName := r.PathValue("accountName")

	logger.Log.WithFields(logrus.Fields{
		"client_id":    id,
		"account_name": accountName,
	}).Info("Delete account request received")

	if accountName == "accounts" {
		removed, err := h.service.DeleteAllClientAccounts(r.Context(), id)
		if err != nil {
			return toAppError(err)
		}
		writeJSON(w, http.StatusOK, removed)
		return nil
	}

	removed, err := h.service.DeleteClientAccount(r.Context(), id, accountName)
	if err != nil {
		return toAppError(err)
	}

	writeJSON(w, http.StatusOK, removed)
	return nil
}
