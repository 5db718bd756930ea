package main

import (
	"os"
	"path/filepath"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/mydeeptech/admin-dashboard/docs"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// mountSwagger sirve Swagger UI en /docs. Prefiere docs/swagger.json junto al binario;
// si no está, vuelca a un archivo temporal el documento registrado por el paquete docs.
func mountSwagger(app *fiber.App, log *logger.Logger) {
	path := swaggerFile
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(os.TempDir(), "mydeeptech-admin-swagger.json")
		if err := os.WriteFile(path, []byte(docs.SwaggerInfo.ReadDoc()), 0o644); err != nil {
			log.Warn().Err(err).Msg("swagger: no se pudo escribir el documento, /docs deshabilitado")
			return
		}
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: path,
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))
}
