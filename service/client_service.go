// file: service/client_service.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bank-clients-api/common"
	"bank-clients-api/logger"
	"bank-clients-api/model"
	"bank-clients-api/repository"

	"github.com/sirupsen/logrus"
)

// Balance operation keywords accepted by UpdateClientAccountBalance.
const (
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
)

// DefaultAccountName is the name of the account seeded onto clients that are
// created without any accounts of their own.
const DefaultAccountName = "First Checking"

const clientCacheTTL = 10 * time.Minute

// IClientService is the contract the HTTP layer programs against.
type IClientService interface {
	AddClient(ctx context.Context, client *model.Client) (*model.Client, error)
	RetrieveAllClients(ctx context.Context) ([]*model.Client, error)
	RetrieveClientByID(ctx context.Context, clientID string) (*model.Client, error)
	UpdateClient(ctx context.Context, client *model.Client) (*model.Client, error)
	DeleteClient(ctx context.Context, clientID string) (*model.Client, error)
	AddAccountToClient(ctx context.Context, clientID string, account model.Account) (*model.Client, error)
	RetrieveClientAccounts(ctx context.Context, clientID string) ([]model.Account, error)
	RetrieveClientAccount(ctx context.Context, clientID, accountName string) (*model.Account, error)
	RetrieveClientAccountsOver(ctx context.Context, clientID string, threshold float64) ([]model.Account, error)
	RetrieveClientAccountsUnder(ctx context.Context, clientID string, threshold float64) ([]model.Account, error)
	UpdateClientAccountBalance(ctx context.Context, clientID, accountName, operation string, amount float64) (*model.Client, error)
	DeleteClientAccount(ctx context.Context, clientID, accountName string) (*model.Account, error)
	DeleteAllClientAccounts(ctx context.Context, clientID string) ([]model.Account, error)
}

// ClientService holds every read-modify-write recipe for a client's accounts.
// Each mutation loads the full client document, alters the in-memory accounts
// sequence, and persists the whole document back through the repository.
// There is no conditional write underneath, so concurrent mutations of the
// same client are last-writer-wins.
type ClientService struct {
	repo  repository.IClientRepository
	cache ICacheClient
}

func NewClientService(repo repository.IClientRepository, cache ICacheClient) *ClientService {
	return &ClientService{
		repo:  repo,
		cache: cache,
	}
}

func clientCacheKey(clientID string) string {
	return fmt.Sprintf("client:%s", clientID)
}

// invalidate drops the cached document after a successful mutation. A cache
// failure here only costs freshness, never correctness, so it is not surfaced.
func (s *ClientService) invalidate(ctx context.Context, clientID string) {
	if err := s.cache.Del(ctx, clientCacheKey(clientID)).Err(); err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID).Warn("Failed to invalidate client cache entry")
	}
}

// AddClient creates a new client. A client arriving with no accounts is
// seeded with a single default checking account.
func (s *ClientService) AddClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if len(client.Accounts) == 0 {
		client.Accounts = []model.Account{{
			Name:    DefaultAccountName,
			Type:    model.AccountTypeChecking,
			Balance: 0,
		}}
	}
	return s.repo.Create(ctx, client)
}

// RetrieveAllClients returns every stored client.
func (s *ClientService) RetrieveAllClients(ctx context.Context) ([]*model.Client, error) {
	return s.repo.GetAll(ctx)
}

// RetrieveClientByID returns one client, utilizing a cache-aside strategy.
func (s *ClientService) RetrieveClientByID(ctx context.Context, clientID string) (*model.Client, error) {
	cacheKey := clientCacheKey(clientID)

	// 1. Try to get the document from the cache.
	if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
		var client model.Client
		if err := json.Unmarshal([]byte(cached), &client); err == nil {
			return &client, nil
		}
	}

	// 2. Cache miss. Fetch from the store.
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// 3. Store the document for future reads.
	if data, err := json.Marshal(client); err == nil {
		s.cache.Set(ctx, cacheKey, data, clientCacheTTL)
	}

	return client, nil
}

// UpdateClient replaces a client's document. Upsert semantics: an unknown id
// creates a new document rather than failing.
func (s *ClientService) UpdateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, client.ID)
	return updated, nil
}

// DeleteClient removes a client and returns its last stored value.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) (*model.Client, error) {
	removed, err := s.repo.Remove(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, clientID)
	return removed, nil
}

// AddAccountToClient appends an account to a client's accounts. There is no
// duplicate-name check; lookups over duplicate names operate on all matches.
func (s *ClientService) AddAccountToClient(ctx context.Context, clientID string, account model.Account) (*model.Client, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"client_id":    clientID,
		"account_name": account.Name,
	}).Info("Adding account to client")

	client.Accounts = append(client.Accounts, account)
	return s.persist(ctx, client)
}

// RetrieveClientAccounts returns a client's accounts sequence as stored.
func (s *ClientService) RetrieveClientAccounts(ctx context.Context, clientID string) ([]model.Account, error) {
	client, err := s.RetrieveClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return client.Accounts, nil
}

// RetrieveClientAccount returns the first account whose name matches.
func (s *ClientService) RetrieveClientAccount(ctx context.Context, clientID, accountName string) (*model.Account, error) {
	accounts, err := s.RetrieveClientAccounts(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Name == accountName {
			return &accounts[i], nil
		}
	}
	return nil, common.NewNotFoundError(
		fmt.Sprintf("Account with name %s could not be found for client %s", accountName, clientID), accountName)
}

// RetrieveClientAccountsOver returns the accounts with balance >= threshold.
// The boundary value is included.
func (s *ClientService) RetrieveClientAccountsOver(ctx context.Context, clientID string, threshold float64) ([]model.Account, error) {
	accounts, err := s.RetrieveClientAccounts(ctx, clientID)
	if err != nil {
		return nil, err
	}
	over := []model.Account{}
	for _, a := range accounts {
		if a.Balance >= threshold {
			over = append(over, a)
		}
	}
	return over, nil
}

// RetrieveClientAccountsUnder returns the accounts with balance <= threshold.
// The boundary value is included.
func (s *ClientService) RetrieveClientAccountsUnder(ctx context.Context, clientID string, threshold float64) ([]model.Account, error) {
	accounts, err := s.RetrieveClientAccounts(ctx, clientID)
	if err != nil {
		return nil, err
	}
	under := []model.Account{}
	for _, a := range accounts {
		if a.Balance <= threshold {
			under = append(under, a)
		}
	}
	return under, nil
}

// UpdateClientAccountBalance applies a deposit or withdrawal to every account
// whose name matches accountName. Duplicate names are all mutated. A failed
// withdrawal or an undefined operation aborts before anything is persisted;
// in-memory changes already applied to earlier matches are discarded with the
// loaded document.
func (s *ClientService) UpdateClientAccountBalance(ctx context.Context, clientID, accountName, operation string, amount float64) (*model.Client, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"client_id":    clientID,
		"account_name": accountName,
		"operation":    operation,
		"amount":       amount,
	})
	log.Info("Applying balance operation")

	found := false
	for i := range client.Accounts {
		account := &client.Accounts[i]
		if account.Name != accountName {
			continue
		}
		found = true

		switch operation {
		case OperationWithdraw:
			if amount > account.Balance {
				return nil, common.NewTransactionError(
					fmt.Sprintf("Insufficient funds: account balance: %v, withdrawal amount: %v", account.Balance, amount),
					fmt.Sprintf("withdraw %v", amount))
			}
			account.Balance -= amount
		case OperationDeposit:
			account.Balance += amount
		default:
			return nil, common.NewTransactionError("Transaction not defined", operation)
		}
	}

	if !found {
		return nil, common.NewNotFoundError(
			fmt.Sprintf("Account with name %s could not be found for client %s", accountName, clientID), accountName)
	}

	return s.persist(ctx, client)
}

// DeleteClientAccount removes every account whose name matches accountName
// and returns the last one removed.
func (s *ClientService) DeleteClientAccount(ctx context.Context, clientID, accountName string) (*model.Account, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var removed *model.Account
	kept := client.Accounts[:0:0]
	for _, a := range client.Accounts {
		if a.Name == accountName {
			account := a
			removed = &account
			continue
		}
		kept = append(kept, a)
	}
	if removed == nil {
		return nil, common.NewNotFoundError(
			fmt.Sprintf("Account with name %s could not be found for client %s", accountName, clientID), accountName)
	}

	logger.Log.WithFields(logrus.Fields{
		"client_id":    clientID,
		"account_name": accountName,
	}).Info("Deleting client account")

	client.Accounts = kept
	if _, err := s.persist(ctx, client); err != nil {
		return nil, err
	}
	return removed, nil
}

// DeleteAllClientAccounts clears a client's accounts and returns the sequence
// as it was before the clear.
func (s *ClientService) DeleteAllClientAccounts(ctx context.Context, clientID string) ([]model.Account, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("client_id", clientID).Info("Deleting all client accounts")

	removed := client.Accounts
	client.Accounts = []model.Account{}
	if _, err := s.persist(ctx, client); err != nil {
		return nil, err
	}
	return removed, nil
}

// persist writes the mutated aggregate back and drops its cache entry.
func (s *ClientService) persist(ctx context.Context, client *model.Client) (*model.Client, error) {
	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, client.ID)
	return updated, nil
}
