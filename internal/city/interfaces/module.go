package interfaces

import (
	cityhttp "Civitas/internal/city/interfaces/http"
	transporthttp "Civitas/internal/shared/transport/http"

	"github.com/gin-gonic/gin"
)

type Module struct {
	httpHandler *cityhttp.CityHandler
}

func New(rt cityhttp.CityRuntime) *Module {
	return &Module{httpHandler: cityhttp.NewCityHandler(rt)}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
