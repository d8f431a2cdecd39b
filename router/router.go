package router

import (
	"net/http"

	"bank-clients-api/common"
	"bank-clients-api/handler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "bank-clients-api/docs"
)

// NewRouter builds the route table. Every client route goes through the
// metrics and error-handling middlewares; the pattern with the literal
// "accounts" segment wins over the {accountName} wildcard by ServeMux
// precedence, and the wildcard route itself dispatches the reserved
// "accounts" name to the clear-all operation.
func NewRouter(clientHandler *handler.ClientHandler) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, fn func(http.ResponseWriter, *http.Request) *common.AppError) {
		mux.Handle(pattern, handler.MetricsMiddleware(pattern, handler.ErrorHandlingMiddleware(fn)))
	}

	route("GET /clients", clientHandler.ListClients)
	route("POST /clients", clientHandler.CreateClient)
	route("GET /clients/{id}", clientHandler.GetClient)
	route("PUT /clients/{id}", clientHandler.UpdateClient)
	route("DELETE /clients/{id}", clientHandler.DeleteClient)
	route("POST /clients/{id}/accounts", clientHandler.AddAccount)
	route("GET /clients/{id}/accounts", clientHandler.ListAccounts)
	route("GET /clients/{id}/{accountName}", clientHandler.GetAccount)
	route("DELETE /clients/{id}/{accountName}", clientHandler.DeleteAccount)
	route("PATCH /clients/{id}/{accountName}/{accountAction}", clientHandler.UpdateAccountBalance)

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mux
}
