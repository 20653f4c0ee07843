package main

import (
	"github.com/labstack/echo/v4/middleware"

	"smartstylist/services"
	"smartstylist/stubserver"
)

func main() {
	e := stubserver.SetupServer(stubserver.NewStore())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Logger.Fatal(e.Start(":" + services.GetEnv("STUB_GATEWAY_PORT", "8080")))
}
