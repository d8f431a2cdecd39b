// cmd/main.go
package main

import (
	"bank-clients-api/app"
)

// @title           Bank Clients API
// @version         1.0
// @description     A banking demo API: clients own accounts that support deposits and withdrawals.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
