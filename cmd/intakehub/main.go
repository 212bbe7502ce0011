// filepath: cmd/intakehub/main.go
package main

import (
	"intakehub/internal/cli"

	// Import docs for Swagger
	_ "intakehub/docs"
)

// @title IntakeHub-API
// @version 1.0.0
// @description Household intake records for a food distribution.
// @BasePath /api
// @schemes http
// @securityDefinitions.basic BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
